// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for persisted domain types. Field order is part of
// the storage format; changing it breaks existing databases.
var (
	IDMUS         = idMUS{}
	SourceTypeMUS = sourceTypeMUS{}
	ChunkMUS      = chunkMUS{}

	vectorMUS = ord.NewSliceSer[float32](varint.Float32)
)

type idMUS struct{}

func (s idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (s idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (s idMUS) Size(id ID) (size int) {
	return varint.Uint64.Size(uint64(id))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type sourceTypeMUS struct{}

func (s sourceTypeMUS) Marshal(st SourceType, bs []byte) (n int) {
	return varint.Int.Marshal(int(st), bs)
}

func (s sourceTypeMUS) Unmarshal(bs []byte) (st SourceType, n int, err error) {
	v, n, err := varint.Int.Unmarshal(bs)
	return SourceType(v), n, err
}

func (s sourceTypeMUS) Size(st SourceType) (size int) {
	return varint.Int.Size(int(st))
}

func (s sourceTypeMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

type chunkMUS struct{}

func (s chunkMUS) Marshal(chunk Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(chunk.Id, bs)
	n += IDMUS.Marshal(chunk.DocId, bs[n:])
	n += ord.String.Marshal(chunk.Title, bs[n:])
	n += varint.Int.Marshal(chunk.ChunkIndex, bs[n:])
	n += SourceTypeMUS.Marshal(chunk.SourceType, bs[n:])
	n += ord.String.Marshal(chunk.Content, bs[n:])
	n += vectorMUS.Marshal(chunk.Vector, bs[n:])
	n += varint.Int64.Marshal(chunk.InsertedAt.UnixMicro(), bs[n:])
	return
}

func (s chunkMUS) Unmarshal(bs []byte) (chunk Chunk, n int, err error) {
	var n1 int
	chunk.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	chunk.DocId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	chunk.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	chunk.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	chunk.SourceType, n1, err = SourceTypeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	chunk.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	chunk.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	chunk.InsertedAt = time.UnixMicro(micros).UTC()
	return
}

func (s chunkMUS) Size(chunk Chunk) (size int) {
	size = IDMUS.Size(chunk.Id)
	size += IDMUS.Size(chunk.DocId)
	size += ord.String.Size(chunk.Title)
	size += varint.Int.Size(chunk.ChunkIndex)
	size += SourceTypeMUS.Size(chunk.SourceType)
	size += ord.String.Size(chunk.Content)
	size += vectorMUS.Size(chunk.Vector)
	size += varint.Int64.Size(chunk.InsertedAt.UnixMicro())
	return
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for _, skip := range []func([]byte) (int, error){
		IDMUS.Skip,
		IDMUS.Skip,
		ord.String.Skip,
		varint.Int.Skip,
		SourceTypeMUS.Skip,
		ord.String.Skip,
		vectorMUS.Skip,
		varint.Int64.Skip,
	} {
		n1, err = skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

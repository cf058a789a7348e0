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

package answerit

// Turn is one completed question/answer exchange.
type Turn struct {
	Question string
	Answer   string
	Sources  []string
}

// Session holds the conversational state for one user.
//
// All state lives here explicitly so the application carries nothing
// between queries on its own. Toggles may be flipped by the caller at
// any time; history and titles are mutated only by App methods.
type Session struct {
	// WebEnabled allows web search for this session's queries.
	WebEnabled bool

	// IncludeWikipedia fetches encyclopedia snippets ahead of routing
	// and passes them as extra evidence.
	IncludeWikipedia bool

	history []Turn
	titles  []string
}

// NewSession creates an empty session with all toggles off.
func NewSession() *Session {
	return &Session{}
}

// History returns the completed turns, oldest first.
func (s *Session) History() []Turn {
	return s.history
}

// Titles returns the documents uploaded during this session.
func (s *Session) Titles() []string {
	return s.titles
}

func (s *Session) appendTurn(turn Turn) {
	s.history = append(s.history, turn)
}

func (s *Session) setTitles(titles []string) {
	s.titles = titles
}

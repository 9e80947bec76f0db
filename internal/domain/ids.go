/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ID is a stable entity identifier. It survives topology edits so that
// selections and openings can re-locate their targets.
type ID string

// IDSource produces new identifiers. The application normally uses UUIDs;
// tests plug in a deterministic sequence.
type IDSource interface {
	NewID() ID
}

// UUIDSource generates random (v4) UUID identifiers.
type UUIDSource struct{}

func (UUIDSource) NewID() ID { return ID(uuid.NewString()) }

// SequenceSource yields Prefix-1, Prefix-2, ... It is deterministic and not
// safe for concurrent use.
type SequenceSource struct {
	Prefix string
	n      int
}

func (s *SequenceSource) NewID() ID {
	s.n++
	p := s.Prefix
	if p == "" {
		p = "id"
	}
	return ID(fmt.Sprintf("%s-%d", p, s.n))
}

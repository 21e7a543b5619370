/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package session

import "fmt"

// State is a step of the transfer protocol
type State uint8

// States in the order a session passes through them
const (
	StateIdle State = iota
	StateHandshake
	StateInfo
	StateModelNegotiation
	StateErase
	StateChunkLoop
	StateDone
	StateAborted
)

var stateNames = map[State]string{
	StateIdle:             "IDLE",
	StateHandshake:        "HANDSHAKE",
	StateInfo:             "INFO",
	StateModelNegotiation: "MODEL_NEGOTIATION",
	StateErase:            "ERASE",
	StateChunkLoop:        "CHUNK_LOOP",
	StateDone:             "DONE",
	StateAborted:          "ABORTED",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

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

//go:generate mockgen -source link.go -destination link_mock.go -package session

import "time"

// Link is a blocking byte transport to the device
type Link interface {
	Write(b []byte) error
	// Read returns up to max bytes, fewer if the device goes quiet for timeout
	Read(max int, timeout time.Duration) ([]byte, error)
	IsOpen() bool
}

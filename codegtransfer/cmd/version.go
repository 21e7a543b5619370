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

package cmd

import (
	"fmt"

	version "github.com/hashicorp/go-version"
)

// Version of the tool, overridable at link time with -ldflags "-X"
var Version = "1.2.0"

func versionString() string {
	v, err := version.NewVersion(Version)
	if err != nil {
		return fmt.Sprintf("codeGTransfer version %s", Version)
	}
	s := v.Segments()
	return fmt.Sprintf("codeGTransfer version %d.%d", s[0], s[1])
}

// Copyright 2024 Google LLC
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

package pom

import "testing"

func TestCanonicalLicense(t *testing.T) {
	tests := []struct {
		name string
		want License
	}{
		{"Apache License, Version 2.0", LicenseApache2},
		{"apache-2.0", LicenseApache2},
		{"MIT License", LicenseMIT},
		{"  mit  ", LicenseMIT},
		{"BSD 3-Clause License", LicenseBSD3},
		{"Eclipse Public License, Version 1.0", LicenseEPL1},
		{"Something Nobody Has Heard Of", LicenseUnknown},
		{"", LicenseUnknown},
	}
	for _, tc := range tests {
		if got := CanonicalLicense(tc.name); got != tc.want {
			t.Errorf("CanonicalLicense(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestLicenseString(t *testing.T) {
	if got := LicenseApache2.String(); got != "Apache-2.0" {
		t.Errorf("LicenseApache2.String() = %q", got)
	}
	if got := LicenseUnknown.String(); got != "Unknown" {
		t.Errorf("LicenseUnknown.String() = %q", got)
	}
}

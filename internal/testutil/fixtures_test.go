// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestSampleRepositories_Layout(t *testing.T) {
	t.Parallel()

	ivyRoot, mavenRoot := SampleRepositories(t)
	for _, path := range []string{
		filepath.Join(ivyRoot, "org.sample", "api", "2.0", "ivy-2.0.xml"),
		filepath.Join(ivyRoot, "org.sample", "rt-helper", "1.0", "ivy-1.0.xml"),
		filepath.Join(ivyRoot, "org.sample", "bare", "1.0", "ivy-1.0.xml"),
		filepath.Join(mavenRoot, "com", "acme", "app", "1.0", "app-1.0.pom"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected fixture %s: %v", path, err)
		}
	}
}

func TestSetHomeDir(t *testing.T) {
	envVar := "HOME"
	if runtime.GOOS == "windows" {
		envVar = "USERPROFILE"
	}
	original := os.Getenv(envVar)
	dir := t.TempDir()

	cleanup := SetHomeDir(t, dir)
	if got := os.Getenv(envVar); got != dir {
		t.Errorf("%s = %q, want %q", envVar, got, dir)
	}
	cleanup()
	if got := os.Getenv(envVar); got != original {
		t.Errorf("after cleanup %s = %q, want %q", envVar, got, original)
	}
}

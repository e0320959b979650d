package cmd

import (
	"strings"
	"testing"
)

func TestVersionTemplate(t *testing.T) {
	version, commit, date = "1.2.3", "abc1234", "2026-08-01"
	if got := versionTemplate(); !strings.Contains(got, "abc1234") {
		t.Errorf("versionTemplate() = %q, want commit included", got)
	}

	commit = "none"
	got := versionTemplate()
	if strings.Contains(got, "commit") {
		t.Errorf("versionTemplate() = %q, want no commit line for dev builds", got)
	}
	if !strings.Contains(got, "1.2.3") {
		t.Errorf("versionTemplate() = %q, want version", got)
	}
}

func TestCleanCommandRegistered(t *testing.T) {
	for _, c := range rootCmd.Commands() {
		if c.Name() == "clean" {
			return
		}
	}
	t.Error("clean subcommand not registered")
}

func TestMemberFlagDefined(t *testing.T) {
	if rootCmd.Flags().Lookup("member") == nil {
		t.Error("--member flag not defined")
	}
	if rootCmd.Flags().Lookup("server") == nil {
		t.Error("--server flag not defined")
	}
}

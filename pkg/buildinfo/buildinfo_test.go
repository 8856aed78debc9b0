package buildinfo

import (
	"fmt"
	"runtime/debug"
	"testing"

	. "github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/prog/progtest"
	"github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/tt"
)

func TestProgram(t *testing.T) {
	Test(t, Program{},
		ThatShell("--version").WritesStdout(Value.Version+"\n"),
		ThatShell("--version", "--json").WritesStdout(mustToJSON(Value.Version)+"\n"),
		ThatShell("--buildinfo").WritesStdout(
			fmt.Sprintf("Version: %v\nGo version: %v\n", Value.Version, Value.GoVersion)),
		ThatShell("--buildinfo", "--json").WritesStdout(mustToJSON(Value)+"\n"),
		// --buildinfo wins over --version.
		ThatShell("--buildinfo", "--version").WritesStdoutContaining("Go version: "),

		ThatShell().ExitsWith(2).WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func settings(revision, time, modified string) *debug.BuildInfo {
	return &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: revision},
		{Key: "vcs.time", Value: time},
		{Key: "vcs.modified", Value: modified},
	}}
}

func TestDevVersion(t *testing.T) {
	devVersionWith := func(vcsOverride string, bi *debug.BuildInfo) string {
		return devVersion("1.2.0", vcsOverride, func() (*debug.BuildInfo, bool) {
			return bi, bi != nil
		})
	}
	const rev = "abcdef0123456789"
	tt.Test(t, tt.Fn("devVersion", devVersionWith), tt.Table{
		tt.Args("", (*debug.BuildInfo)(nil)).Rets("1.2.0-dev.unknown"),
		tt.Args("", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}).
			Rets("1.2.0-dev.unknown"),
		tt.Args("", &debug.BuildInfo{Main: debug.Module{Version: "v1.2.0-rc.1"}}).
			Rets("1.2.0-rc.1"),

		tt.Args("", settings(rev, "2017-06-30T12:00:01Z", "false")).
			Rets("1.2.0-dev.0.20170630120001-abcdef012345"),
		tt.Args("", settings(rev, "2017-06-30T14:00:01+02:00", "true")).
			Rets("1.2.0-dev.0.20170630120001-abcdef012345-dirty"),
		tt.Args("", settings("abc", "2017-06-30T12:00:01Z", "false")).
			Rets("1.2.0-dev.0.20170630120001-abc"),
		tt.Args("", settings(rev, "yesterday", "false")).Rets("1.2.0-dev.unknown"),
		tt.Args("", settings("", "2017-06-30T12:00:01Z", "false")).Rets("1.2.0-dev.unknown"),

		tt.Args("20170630120001-abcdef012345", settings(rev, "yesterday", "true")).
			Rets("1.2.0-dev.0.20170630120001-abcdef012345"),
	})
}

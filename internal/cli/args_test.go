package cli

import (
	"reflect"
	"testing"
)

func TestModeSelection(t *testing.T) {
	cases := []struct {
		name string
		argv []string
		want Mode
	}{
		{"empty", nil, ModeLaunch},
		{"help", []string{"--help"}, ModeHelp},
		{"help beats version", []string{"--version", "--help"}, ModeHelp},
		{"version", []string{"--version"}, ModeVersion},
		{"cpu profile", []string{"--cpu-profile=9229"}, ModeCPUProfile},
		{"list extensions", []string{"--list-extensions"}, ModeExtensions},
		{"install extension", []string{"--install-extension", "foo.qext"}, ModeExtensions},
		{"uninstall extension", []string{"--uninstall-extension=pub.ext"}, ModeExtensions},
		{"install source", []string{"--install-source=/tmp/dev-ext"}, ModeExtensions},
		{"version beats extensions", []string{"--version", "--list-extensions"}, ModeVersion},
		{"paths launch", []string{"/tmp/a.txt", "--wait"}, ModeLaunch},
		{"unknown flags launch", []string{"--remote-debugging-port=9222"}, ModeLaunch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			args, err := Parse(tc.argv)
			if err != nil {
				t.Fatalf("Parse(%v): %v", tc.argv, err)
			}
			if got := args.Mode(); got != tc.want {
				t.Fatalf("Mode() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseCollectsPaths(t *testing.T) {
	args, err := Parse([]string{"--wait", "/tmp/a.txt", "/tmp/b.txt"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !args.Wait {
		t.Fatal("wait flag not set")
	}
	want := []string{"/tmp/a.txt", "/tmp/b.txt"}
	if !reflect.DeepEqual(args.Paths, want) {
		t.Fatalf("Paths = %v, want %v", args.Paths, want)
	}
}

func TestParsePreservesRawArgv(t *testing.T) {
	argv := []string{"--verbose", "--inspect=9333", "/tmp/file"}
	args, err := Parse(argv)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(args.Raw, argv) {
		t.Fatalf("Raw = %v, want %v", args.Raw, argv)
	}
}

func TestParseRepeatedInstall(t *testing.T) {
	args, err := Parse([]string{"--install-extension=a.qext", "--install-extension=b.qext"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(args.InstallExtensions) != 2 {
		t.Fatalf("InstallExtensions = %v", args.InstallExtensions)
	}
}

func TestParseMalformedFlag(t *testing.T) {
	// A known flag with an unparsable value is a parse error; callers treat
	// it as a help-like outcome, not a crash.
	if _, err := Parse([]string{"--wait=notabool"}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCPUProfilePort(t *testing.T) {
	args, err := Parse([]string{"--cpu-profile=9230"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	port, err := args.CPUProfilePort()
	if err != nil || port != 9230 {
		t.Fatalf("CPUProfilePort() = %d, %v", port, err)
	}

	args.CPUProfile = "not-a-port"
	if _, err := args.CPUProfilePort(); err == nil {
		t.Fatal("expected error for bad port")
	}
}

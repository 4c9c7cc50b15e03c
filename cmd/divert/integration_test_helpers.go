//go:build integration

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/divert/internal/config"
	"github.com/raphi011/divert/internal/log"
	"github.com/raphi011/divert/internal/output"
)

// stubScript is a minimal dpkg-divert stand-in. It keeps its registry as
// "path|target|holder" lines in $DIVERT_TEST_STATE and mirrors the real
// tool's CLI contract: --listpackage/--truename/--list queries, --test
// dry runs, clash and mismatch errors on exit code 2, "Leaving"/"No
// diversion" no-op markers, and --rename moves that never overwrite.
// Setting $DIVERT_TEST_FAIL_ADD to an existing file makes the next real
// add fail, consuming the file.
const stubScript = `#!/bin/sh
STATE="${DIVERT_TEST_STATE:?}"
[ -f "$STATE" ] || : > "$STATE"

test_mode=0 remove=0 rename=0 package="" divert="" mode=mutate path=""

while [ $# -gt 0 ]; do
	case "$1" in
	--admindir) shift ;;
	--test) test_mode=1 ;;
	--remove) remove=1 ;;
	--rename) rename=1 ;;
	--package) package="$2"; shift ;;
	--divert) divert="$2"; shift ;;
	--listpackage) mode=listpackage ;;
	--truename) mode=truename ;;
	--list) mode=list ;;
	*) path="$1" ;;
	esac
	shift
done

entry=$(awk -F'|' -v p="$path" '$1==p {print; exit}' "$STATE")
cur_t=""; cur_h=""
if [ -n "$entry" ]; then
	cur_t=$(printf '%s\n' "$entry" | cut -d'|' -f2)
	cur_h=$(printf '%s\n' "$entry" | cut -d'|' -f3)
fi

describe() {
	if [ -z "$3" ]; then
		printf "local diversion of %s to %s" "$1" "$2"
	else
		printf "diversion of %s to %s by %s" "$1" "$2" "$3"
	fi
}

case "$mode" in
listpackage)
	if [ -n "$entry" ]; then
		if [ -z "$cur_h" ]; then echo LOCAL; else echo "$cur_h"; fi
	fi
	exit 0
	;;
truename)
	if [ -n "$entry" ]; then echo "$cur_t"; else echo "$path"; fi
	exit 0
	;;
list)
	while IFS='|' read -r p t h; do
		[ -n "$p" ] || continue
		case "$p" in
		$path) echo "$(describe "$p" "$t" "$h")" ;;
		esac
	done < "$STATE"
	exit 0
	;;
esac

if [ "$remove" = 1 ]; then
	if [ -z "$entry" ]; then
		echo "No diversion 'any diversion of $path', none removed."
		exit 0
	fi
	if [ -n "$divert" ] && [ "$divert" != "$cur_t" ]; then
		echo "dpkg-divert: error: mismatch on divert-to" >&2
		exit 2
	fi
	if [ -n "$package" ] && [ "$package" != "$cur_h" ]; then
		echo "dpkg-divert: error: mismatch on package" >&2
		exit 2
	fi
	echo "Removing '$(describe "$path" "$cur_t" "$cur_h")'"
	if [ "$test_mode" = 1 ]; then exit 0; fi
	if [ "$rename" = 1 ] && [ -f "$cur_t" ] && [ ! -f "$path" ]; then
		mv "$cur_t" "$path"
	fi
	awk -F'|' -v p="$path" '$1!=p' "$STATE" > "$STATE.tmp" && mv "$STATE.tmp" "$STATE"
	exit 0
fi

target="$divert"
[ -n "$target" ] || target="$path.distrib"

if [ -n "$entry" ]; then
	if [ "$target" = "$cur_t" ] && [ "$package" = "$cur_h" ]; then
		echo "Leaving '$(describe "$path" "$cur_t" "$cur_h")'"
		exit 0
	fi
	echo "dpkg-divert: error: '$(describe "$path" "$target" "$package")' clashes with '$(describe "$path" "$cur_t" "$cur_h")'" >&2
	exit 2
fi
if [ "$test_mode" = 0 ] && [ -n "${DIVERT_TEST_FAIL_ADD:-}" ] && [ -f "$DIVERT_TEST_FAIL_ADD" ]; then
	rm -f "$DIVERT_TEST_FAIL_ADD"
	echo "dpkg-divert: error: add failed" >&2
	exit 2
fi
echo "Adding '$(describe "$path" "$target" "$package")'"
if [ "$test_mode" = 1 ]; then exit 0; fi
if [ "$rename" = 1 ] && [ -f "$path" ] && [ ! -f "$target" ]; then
	mv "$path" "$target"
fi
printf '%s|%s|%s\n' "$path" "$target" "$package" >> "$STATE"
exit 0
`

// setupStub installs the dpkg-divert stub and points the command config at
// it. Returns the directory holding the test's files and state.
func setupStub(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	stub := filepath.Join(dir, "dpkg-divert")
	if err := os.WriteFile(stub, []byte(stubScript), 0755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("DIVERT_TEST_STATE", filepath.Join(dir, "state"))

	oldCfg := cfg
	c := config.Default()
	c.DpkgDivert = stub
	cfg = &c
	t.Cleanup(func() { cfg = oldCfg })

	return dir
}

// testContext returns a command context whose primary output is captured.
func testContext(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()

	var stdout bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(io.Discard, false, true))
	ctx = output.WithPrinter(ctx, &stdout)
	return ctx, &stdout
}

// registryState reads the stub's registry lines.
func registryState(t *testing.T) []string {
	t.Helper()

	b, err := os.ReadFile(os.Getenv("DIVERT_TEST_STATE"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(string(b)), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// seedDiversion writes one registry entry directly into the stub state.
func seedDiversion(t *testing.T, path, target, holder string) {
	t.Helper()

	f, err := os.OpenFile(os.Getenv("DIVERT_TEST_STATE"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("open state: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(path + "|" + target + "|" + holder + "\n"); err != nil {
		t.Fatalf("seed state: %v", err)
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

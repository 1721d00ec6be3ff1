package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Way/highcharts-utils/pkg/cache"
)

func TestRootCommandAttachesLogger(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var got *log.Logger
	root.AddCommand(&cobra.Command{
		Use: "ctxlog",
		RunE: func(cmd *cobra.Command, args []string) error {
			got = loggerFromContext(cmd.Context())
			return nil
		},
	})
	root.SetArgs([]string{"ctxlog"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if got != c.Logger {
		t.Error("commands should receive the CLI logger through context")
	}
}

func TestNewKeyer(t *testing.T) {
	c := New(io.Discard, LogInfo)
	if c.newKeyer() != nil {
		t.Error("file backend should use the default keyer")
	}

	c.Config.Redis.Addr = "localhost:6379"
	k := c.newKeyer()
	if k == nil {
		t.Fatal("redis backend should get a scoped keyer")
	}
	key := k.DatasetKey("h", cache.ExpandKeyOpts{})
	if !strings.HasPrefix(key, appName+":") {
		t.Errorf("redis keys should carry the %q prefix, got %s", appName+":", key)
	}
}

func TestServeCommandFlags(t *testing.T) {
	c := New(io.Discard, LogInfo)
	cmd := c.serveCommand()
	for _, name := range []string{"addr", "mongo-uri", "no-cache"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("serve should define --%s", name)
		}
	}
}

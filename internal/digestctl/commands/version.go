package commands

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var timeNow = time.Now

// newVersionCmd asks a running server for its version.
func newVersionCmd() *cobra.Command {
	var host string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of a running digest server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), fetchVersion(host))
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "localhost:8080", "server host:port to query")
	return cmd
}

func fetchVersion(host string) string {
	const none = "No version detected"

	client := http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s/digest/version", host))
	if err != nil {
		return none
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return none
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return none
	}

	if version := strings.TrimSpace(string(body)); version != "" {
		return version
	}
	return none
}

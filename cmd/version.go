package cmd

import (
	"fmt"

	"github.com/findy-network/findy-cloud-agent/server"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var versionDoc = ``

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the version and build information of the cloud agent",
	Long:  versionDoc,
	RunE: func(_ *cobra.Command, _ []string) (err error) {
		defer err2.Handle(&err)

		try.To1(fmt.Println(server.Version))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

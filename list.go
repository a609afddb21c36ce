package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"modbot/commands"
	"modbot/utils"

	"github.com/spf13/cobra"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the available commands",
	Long:  `Display every registered command with its usage and the permission the invoker needs.`,
	Run:   runList,
}

var filterCategory string

func init() {
	commandsCmd.Flags().StringVarP(&filterCategory, "category", "f", "", "Filter by category")
}

func runList(cmd *cobra.Command, args []string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMMAND\tALIASES\tPERMISSION\tUSAGE")
	for _, info := range commands.AllCommands() {
		if filterCategory != "" && !strings.EqualFold(info.Category, filterCategory) {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			info.Name, strings.Join(info.Aliases, ","), utils.PermissionName(info.Permission), info.Usage)
	}
	w.Flush()
}

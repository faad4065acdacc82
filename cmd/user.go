package cmd

import (
	"github.com/ethrahere/curatoor/core"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <address>",
	Short: "get or create the user of an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database := provideDatabase()
		defer database.Close()

		var profile *core.FarcasterProfile
		if fid, _ := cmd.Flags().GetInt64("fid"); fid > 0 {
			username, _ := cmd.Flags().GetString("username")
			displayName, _ := cmd.Flags().GetString("display-name")
			pfp, _ := cmd.Flags().GetString("pfp")

			profile = &core.FarcasterProfile{
				Username:    username,
				DisplayName: displayName,
				FID:         fid,
				PfpURL:      pfp,
			}
		}

		user, err := provideUserService(provideUserStore(database)).GetOrCreate(cmd.Context(), args[0], profile)
		if err != nil {
			return err
		}

		printJSON(cmd, user)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)

	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().Int64("fid", 0, "farcaster id")
	userCreateCmd.Flags().String("username", "", "farcaster username")
	userCreateCmd.Flags().String("display-name", "", "farcaster display name")
	userCreateCmd.Flags().String("pfp", "", "farcaster profile picture url")
}

package cmd

import (
	"bufio"
	"context"
	"encoding/json"

	"github.com/ethrahere/curatoor/core"

	"github.com/fox-one/pkg/qrcode"
	"github.com/spf13/cobra"
)

var signerCmd = &cobra.Command{
	Use:   "signer",
	Short: "request, confirm and inspect delegated signers",
}

func signerAPI(cmd *cobra.Command) (core.SignerAPI, func()) {
	endpoint, _ := cmd.Flags().GetString("endpoint")
	return provideSignerAPI(endpoint)
}

func printJSON(cmd *cobra.Command, v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	cmd.Println(string(data))
}

func printDeepLink(cmd *cobra.Command, req *core.SignerRequest) {
	cmd.Println("public key:", req.PublicKey)
	cmd.Println("approve in your wallet app:", req.DeepLink)
	qrcode.Fprint(cmd.OutOrStdout(), req.DeepLink)
}

var signerRequestCmd = &cobra.Command{
	Use:   "request <address>",
	Short: "issue a new signer keypair and print the approval deep link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, done := signerAPI(cmd)
		defer done()

		req, err := api.Request(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printDeepLink(cmd, req)
		return nil
	},
}

var signerConfirmCmd = &cobra.Command{
	Use:   "confirm <address>",
	Short: "wait for the hub to approve the pending signer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, done := signerAPI(cmd)
		defer done()

		fid, _ := cmd.Flags().GetInt64("fid")
		signerUUID, _ := cmd.Flags().GetString("signer-uuid")

		status, err := api.Confirm(cmd.Context(), core.ConfirmInput{
			Address:    args[0],
			FID:        fid,
			SignerUUID: signerUUID,
		})
		if err != nil {
			return err
		}

		printJSON(cmd, status)
		return nil
	},
}

var signerStatusCmd = &cobra.Command{
	Use:   "status <address>",
	Short: "show whether the address has a confirmed signer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, done := signerAPI(cmd)
		defer done()

		status, err := api.Status(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printJSON(cmd, status)
		return nil
	},
}

var signerAuthorizeCmd = &cobra.Command{
	Use:   "authorize <address>",
	Short: "status, request and confirm until the address has a confirmed signer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, done := signerAPI(cmd)
		defer done()

		ctx := cmd.Context()
		fid, _ := cmd.Flags().GetInt64("fid")

		status, err := provideSession(api).Authorize(ctx, args[0], fid, func(ctx context.Context, req *core.SignerRequest) error {
			printDeepLink(cmd, req)
			cmd.Println("press enter once approved")
			_, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			return err
		})
		if err != nil {
			return err
		}

		printJSON(cmd, status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signerCmd)
	signerCmd.PersistentFlags().String("endpoint", "", "curatoor server url, the database is used directly when empty")

	signerCmd.AddCommand(signerRequestCmd)
	signerCmd.AddCommand(signerStatusCmd)

	signerCmd.AddCommand(signerConfirmCmd)
	signerConfirmCmd.Flags().Int64("fid", 0, "farcaster id that approved the signer")
	signerConfirmCmd.Flags().String("signer-uuid", "", "optional companion service signer uuid")

	signerCmd.AddCommand(signerAuthorizeCmd)
	signerAuthorizeCmd.Flags().Int64("fid", 0, "farcaster id of the user")
}

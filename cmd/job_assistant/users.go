package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/apiclient"
	"github.com/jonathan/job-assistant/internal/translate"
	"github.com/jonathan/job-assistant/internal/types"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Create and look up backend users",
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a user",
	Args:  cobra.NoArgs,
	RunE:  runUsersCreate,
}

var usersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersGet,
}

var (
	usersEmail string
	usersName  string
)

func init() {
	usersCreateCmd.Flags().StringVar(&usersEmail, "email", "", "Email address (required)")
	usersCreateCmd.Flags().StringVar(&usersName, "name", "", "Full name (required)")
	_ = usersCreateCmd.MarkFlagRequired("email")
	_ = usersCreateCmd.MarkFlagRequired("name")

	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersGetCmd)
	rootCmd.AddCommand(usersCmd)
}

func runUsersCreate(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	user, err := rt.client.CreateUser(cmd.Context(), &types.CreateUserRequest{Email: usersEmail, FullName: usersName})
	if err != nil {
		return translate.Translate(apiclient.OpCreateUser, err)
	}
	rt.printer.PrintUser(user)
	return nil
}

func runUsersGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	user, err := rt.client.GetUser(cmd.Context(), id)
	if err != nil {
		return translate.Translate(apiclient.OpGetUser, err)
	}
	rt.printer.PrintUser(user)
	return nil
}

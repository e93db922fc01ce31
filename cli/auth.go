package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

const keyringService = "gesturecli"
const keyringUser = "api-token"

// storedToken reads the API token from the OS keyring.
func storedToken() (string, error) {
	return keyring.Get(keyringService, keyringUser)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "API token management",
	Long:  `Commands for managing the local API token required by 'server start --auth'.`,
}

var authGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and store a new API token",
	Long:  `Generates a fresh API token, stores it in the OS keyring and prints it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token := uuid.New().String()
		if err := keyring.Set(keyringService, keyringUser, token); err != nil {
			return fmt.Errorf("failed to store API token: %w", err)
		}

		fmt.Println(token)
		return nil
	},
}

var authTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Display the current API token",
	Long:  `Displays the stored API token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := storedToken()
		if err != nil {
			return fmt.Errorf("no API token found; run 'gesturecli auth generate'")
		}

		fmt.Println(token)
		return nil
	},
}

var authRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Delete the stored API token",
	Long:  `Removes the API token from the OS keyring.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := keyring.Delete(keyringService, keyringUser); err != nil {
			fmt.Println("no API token stored")
			return nil
		}

		fmt.Println("API token revoked.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authGenerateCmd, authTokenCmd, authRevokeCmd)
}

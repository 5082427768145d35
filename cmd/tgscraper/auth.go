package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tgscraper/pkg/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Telegram API credentials",
	Long: `Manage stored Telegram API credentials securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (for CI and containers)

Get an api_id and api_hash by registering an application at
https://my.telegram.org. Never share them or commit them to a repository.`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store Telegram API credentials securely",
	Long: `Store Telegram API credentials in the system keychain or encrypted file.

You will be prompted for:
  - An account name (if not provided)
  - The api_id
  - The api_hash (input is hidden)`,
	Example: `  # Interactive login
  tgscraper auth login

  # Login under a specific account name
  tgscraper auth login work`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored Telegram API accounts with the api_hash masked.`,
	Run:   runList,
}

// removeCmd represents the auth remove command
var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove stored credentials",
	Args:  cobra.ExactArgs(1),
	Run:   runRemove,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(listCmd)
	authCmd.AddCommand(removeCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize credential manager:", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)

	var name string
	if len(args) > 0 {
		name = args[0]
	}
	if name == "" {
		fmt.Print("Account name: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to read account name:", err)
			os.Exit(1)
		}
		name = strings.TrimSpace(input)
	}
	if name == "" {
		fmt.Fprintln(os.Stderr, "account name is required")
		os.Exit(1)
	}

	fmt.Print("api_id: ")
	idInput, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read api_id:", err)
		os.Exit(1)
	}
	apiID, err := strconv.Atoi(strings.TrimSpace(idInput))
	if err != nil || apiID <= 0 {
		fmt.Fprintln(os.Stderr, "api_id must be a positive integer")
		os.Exit(1)
	}

	fmt.Print("api_hash (hidden): ")
	hashBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read api_hash:", err)
		os.Exit(1)
	}
	apiHash := strings.TrimSpace(string(hashBytes))
	if apiHash == "" {
		fmt.Fprintln(os.Stderr, "api_hash is required")
		os.Exit(1)
	}

	account := &auth.Account{
		Name:    name,
		APIID:   apiID,
		APIHash: apiHash,
	}
	if err := manager.Store(account); err != nil {
		fmt.Fprintln(os.Stderr, "failed to store credentials:", err)
		os.Exit(1)
	}

	fmt.Printf("Credentials stored for account %q\n", name)
}

func runList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize credential manager:", err)
		os.Exit(1)
	}

	accounts, err := manager.List()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to list accounts:", err)
		os.Exit(1)
	}
	if len(accounts) == 0 {
		fmt.Println("No stored accounts. Use 'tgscraper auth login' to add one.")
		return
	}

	for _, account := range accounts {
		fmt.Printf("  %s (api_id: %d, api_hash: %s)\n",
			account.Name, account.APIID, maskHash(account.APIHash))
	}
}

func runRemove(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize credential manager:", err)
		os.Exit(1)
	}

	name := args[0]
	if err := manager.Delete(name); err != nil {
		fmt.Fprintln(os.Stderr, "failed to remove credentials:", err)
		os.Exit(1)
	}
	fmt.Printf("Removed credentials for account %q\n", name)
}

// maskHash shows just enough of the api_hash to recognize it
func maskHash(hash string) string {
	if len(hash) <= 4 {
		return "****"
	}
	return hash[:4] + strings.Repeat("*", len(hash)-4)
}

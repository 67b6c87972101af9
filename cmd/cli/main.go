package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "peerledger-cli",
		Short: "PeerLedger CLI tool",
		Long:  `A command line interface for interacting with the PeerLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the PeerLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check API health",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/health")
		},
	}
	rootCmd.AddCommand(healthCmd)

	// User commands
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "User operations",
	}

	usersListCmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/users/")
		},
	}

	usersGetCmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show a user with their transactions",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/users/" + args[0] + "/")
		},
	}

	usersCmd.AddCommand(usersListCmd, usersGetCmd)
	rootCmd.AddCommand(usersCmd)

	// Transaction commands
	transactionsCmd := &cobra.Command{
		Use:   "transactions",
		Short: "Transaction operations",
	}

	transactionsGetCmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show a transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/transactions/" + args[0] + "/")
		},
	}

	var accept bool
	transactionsResolveCmd := &cobra.Command{
		Use:   "resolve [id]",
		Short: "Accept or deny a pending transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/transactions/"+args[0]+"/", map[string]any{"accepted": accept})
		},
	}
	transactionsResolveCmd.Flags().BoolVar(&accept, "accept", true, "Accept (true) or deny (false) the transaction")

	transactionsCmd.AddCommand(transactionsGetCmd, transactionsResolveCmd)
	rootCmd.AddCommand(transactionsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func postJSON(path string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}

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
		Use:   "sab-cli",
		Short: "Accounting book CLI tool",
		Long:  `A command line interface for interacting with the accounting book API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the accounting book API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	accountGetCmd := &cobra.Command{
		Use:   "get [uid]",
		Short: "Get an account by UID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/accounts/" + args[0])
		},
	}

	accountCreateCmd := &cobra.Command{
		Use:   "create [json]",
		Short: "Create an account from a JSON document",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/accounts/", args[0], "")
		},
	}

	accountEntriesCmd := &cobra.Command{
		Use:   "entries [uid]",
		Short: "List journal entries of an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/accounts/" + args[0] + "/entries")
		},
	}

	accountCmd.AddCommand(accountGetCmd, accountCreateCmd, accountEntriesCmd)

	var idempotencyKey string

	settleCmd := &cobra.Command{
		Use:   "settle [json]",
		Short: "Execute a settlement instruction from a JSON document",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/settlements/", args[0], idempotencyKey)
		},
	}
	settleCmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency-Key header value")

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}

	ledgerCmd.AddCommand(consistencyCmd)
	rootCmd.AddCommand(accountCmd, settleCmd, ledgerCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func get(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func post(path, body, idempotencyKey string) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewBufferString(body))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
	} else {
		fmt.Println(pretty.String())
	}

	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}

func checkConsistency() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/ledger/consistency")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if consistent, ok := result["consistent"].(bool); ok && consistent {
		fmt.Println("Consistency check PASSED")
	} else {
		fmt.Println("Consistency check FAILED: control totals diverge")
	}
	fmt.Printf("User total: %v\nGL total:   %v\n", result["user_total"], result["gl_total"])
}

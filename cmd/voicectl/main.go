// Package main implements the voicectl CLI for manual operations against
// the voiced HTTP server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL for the voiced HTTP server
	serverURL string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "voicectl",
	Short: "CLI for voiced HTTP server operations",
	Long: `voicectl is a command-line interface for interacting with the voiced HTTP server.
It provides commands for asking questions, managing the knowledge base, and
selecting the synthesis voice.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:7860", "voiced server URL")
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(docCmd)
	rootCmd.AddCommand(voiceCmd)

	docCmd.AddCommand(docAddCmd)
	docCmd.AddCommand(docCountCmd)

	voiceCmd.AddCommand(voiceListCmd)
	voiceCmd.AddCommand(voiceSetCmd)
}

// healthCmd checks server health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check voiced server health",
	Long: `Check the health status of the voiced HTTP server.

Examples:
  # Check health
  voicectl health

  # Check health on a different server
  voicectl health --server http://localhost:8080`,
	RunE: runHealth,
}

// askCmd asks a text question
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a text question against the knowledge base",
	Long: `Ask a question and print the generated answer with its sources.

Examples:
  # Ask a question
  voicectl ask "What time does the pool open?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

// docCmd groups knowledge base operations
var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Manage the knowledge base",
}

// docAddCmd adds a document from an argument, file, or stdin
var docAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a document to the knowledge base",
	Long: `Add a document to the knowledge base from an argument, a file, or stdin.

Examples:
  # Add inline text
  voicectl doc add "The spa opens at 9 AM."

  # Add from a file
  voicectl doc add --file faq.txt

  # Add from stdin
  cat faq.txt | voicectl doc add -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDocAdd,
}

// docCountCmd prints the knowledge base size
var docCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Show the number of documents in the knowledge base",
	RunE:  runDocCount,
}

// voiceCmd groups voice selection operations
var voiceCmd = &cobra.Command{
	Use:   "voice",
	Short: "Manage the synthesis voice",
}

// voiceListCmd lists voice presets
var voiceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available voices and the current selection",
	RunE:  runVoiceList,
}

// voiceSetCmd changes the synthesis voice
var voiceSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Change the synthesis voice",
	Long: `Change the voice used for spoken answers.

Examples:
  voicectl voice set Rachel
  voicectl voice set Matilda`,
	Args: cobra.ExactArgs(1),
	RunE: runVoiceSet,
}

var docFile string

func init() {
	docAddCmd.Flags().StringVar(&docFile, "file", "", "read document text from a file")
}

// API types matching internal/http/types.go.

type AskTextRequest struct {
	Question string `json:"question"`
}

type AskTextResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

type AddDocumentRequest struct {
	Text string `json:"text"`
}

type AddDocumentResponse struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type VoicesResponse struct {
	Voices   []string `json:"voices"`
	Selected string   `json:"selected"`
}

type SetVoiceRequest struct {
	Voice string `json:"voice"`
}

type SetVoiceResponse struct {
	Voice string `json:"voice"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// runHealth handles the health command
func runHealth(cmd *cobra.Command, args []string) error {
	url := fmt.Sprintf("%s/health", serverURL)

	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect to %s: %v\n", url, err)
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	var healthResp HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&healthResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Printf("Server Status: %s\n", healthResp.Status)
	fmt.Printf("Server URL: %s\n", serverURL)

	return nil
}

// runAsk handles the ask command
func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	var askResp AskTextResponse
	if err := postJSON("/api/v1/ask/text", AskTextRequest{Question: question}, &askResp); err != nil {
		return err
	}

	fmt.Println(askResp.Answer)
	if len(askResp.Sources) > 0 {
		fmt.Fprintf(os.Stderr, "\n[voicectl] %d source(s) retrieved\n", len(askResp.Sources))
	}

	return nil
}

// runDocAdd handles the doc add command
func runDocAdd(cmd *cobra.Command, args []string) error {
	var content []byte
	var err error

	switch {
	case docFile != "":
		content, err = os.ReadFile(docFile)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", docFile, err)
		}
	case len(args) == 0 || args[0] == "-":
		content, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
	default:
		content = []byte(args[0])
	}

	text := strings.TrimSpace(string(content))
	if text == "" {
		return fmt.Errorf("no content to add")
	}

	var addResp AddDocumentResponse
	if err := postJSON("/api/v1/documents", AddDocumentRequest{Text: text}, &addResp); err != nil {
		return err
	}

	fmt.Printf("Added document %s (%d documents total)\n", addResp.ID, addResp.Count)
	return nil
}

// runDocCount handles the doc count command
func runDocCount(cmd *cobra.Command, args []string) error {
	var countResp CountResponse
	if err := getJSON("/api/v1/documents/count", &countResp); err != nil {
		return err
	}

	fmt.Printf("Documents: %d\n", countResp.Count)
	return nil
}

// runVoiceList handles the voice list command
func runVoiceList(cmd *cobra.Command, args []string) error {
	var voicesResp VoicesResponse
	if err := getJSON("/api/v1/voices", &voicesResp); err != nil {
		return err
	}

	for _, v := range voicesResp.Voices {
		marker := " "
		if v == voicesResp.Selected {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, v)
	}

	return nil
}

// runVoiceSet handles the voice set command
func runVoiceSet(cmd *cobra.Command, args []string) error {
	req, err := http.NewRequest("PUT", serverURL+"/api/v1/voice", jsonBody(SetVoiceRequest{Voice: args[0]}))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	var setResp SetVoiceResponse
	if err := json.NewDecoder(resp.Body).Decode(&setResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Printf("Voice set to %s\n", setResp.Voice)
	return nil
}

// postJSON sends a JSON POST and decodes the response into out.
func postJSON(path string, body, out any) error {
	url := serverURL + path
	req, err := http.NewRequest("POST", url, jsonBody(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// getJSON sends a GET and decodes the response into out.
func getJSON(path string, out any) error {
	url := serverURL + path
	client := &http.Client{Timeout: 30 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// jsonBody marshals a request body, panicking only on unmarshalable
// types, which cannot happen for the fixed request structs here.
func jsonBody(v any) io.Reader {
	data, _ := json.Marshal(v)
	return bytes.NewReader(data)
}

// checkStatus returns an error describing a non-200 response.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
	}
	return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const (
	flagListenAddr = "listen_addr"
)

func init() {
	rootCmd.PersistentFlags().String(flagListenAddr, "localhost:8080", "Listen Address")
}

var rootCmd = &cobra.Command{
	Use:   "terminal_cli",
	Short: "contract terminal cli utilities implementation",
}

func main() {
	rootCmd.AddCommand(
		loginCommand(),
		getUsernameCommand(),
		lookupClientCommand(),
		getClientCommand(),
		getStateCommand(),
		addAttachmentsCommand(),
		confirmAttachmentsCommand(),
		getAttachmentsCommand(),
		openSignatureCommand(),
		drawSignatureCommand(),
		clearSignatureCommand(),
		confirmSignatureCommand(),
		closeSignatureCommand(),
		getSignaturesCommand(),
		submitContractCommand(),
		listContractsCommand(),
	)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute root command: %v", err)
	}
}

func listenAddr(cmd *cobra.Command) (string, error) {
	addr, err := cmd.Flags().GetString(flagListenAddr)
	if err != nil {
		return "", fmt.Errorf("failed to read configuration: %v", err)
	}
	return addr, nil
}

func getRequest(host, path string, response interface{}) error {
	resp, err := http.Get(fmt.Sprintf("http://%s%s", host, path))
	if err != nil {
		return fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}

	if err = json.Unmarshal(responseBody, response); err != nil {
		return fmt.Errorf("failed to unmarshal response: %v", err)
	}
	return nil
}

func postRequest(host, path string, body interface{}, response interface{}) error {
	bz, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := http.Post(fmt.Sprintf("http://%s%s", host, path), "application/json", bytes.NewReader(bz))
	if err != nil {
		return fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}

	if err = json.Unmarshal(responseBody, response); err != nil {
		return fmt.Errorf("failed to unmarshal response: %v", err)
	}
	return nil
}

func loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login [user] [password]",
		Args:  cobra.ExactArgs(2),
		Short: "authenticates the clerk against the retail backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response OperationResponse
			err = postRequest(addr, "/login", map[string]string{"user": args[0], "password": args[1]}, &response)
			if err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to login: %s", response.ErrorMessage)
			}
			color.Green("logged in")
			return nil
		},
	}
}

func getUsernameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_username",
		Short: "returns the clerk username the terminal runs as",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response OperationResponse
			if err := getRequest(addr, "/getUsername", &response); err != nil {
				return fmt.Errorf("failed to get username: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get username: %s", response.ErrorMessage)
			}
			fmt.Println(response.Result)
			return nil
		},
	}
}

func printClient(response *ClientResponse) {
	client := response.Result
	fmt.Printf("Código: %s\n", client.ID)
	fmt.Printf("Nome: %s\n", client.BuyerName)
	fmt.Printf("CPF: %s\n", client.CPF)
	fmt.Printf("RG: %s\n", client.RG)
	fmt.Printf("Endereço: %s, %s - %s\n", client.Street, client.Number, client.City)
	fmt.Printf("Limite de crédito: %s\n", client.CreditLimit)
	fmt.Printf("Filial: %s (%s)\n", client.BranchName, client.BranchCNPJ)
	fmt.Printf("Consultado em: %s\n", client.LookedUpAt.Format("02/01/2006 15:04:05"))
}

func lookupClientCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup_client [clientID]",
		Args:  cobra.ExactArgs(1),
		Short: "restarts the workflow and loads the given client",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response ClientResponse
			err = postRequest(addr, "/lookupClient", map[string]string{"clientID": args[0]}, &response)
			if err != nil {
				return fmt.Errorf("failed to lookup client: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to lookup client: %s", response.ErrorMessage)
			}
			printClient(&response)
			return nil
		},
	}
}

func getClientCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_client",
		Short: "shows the client loaded into the current workflow",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response ClientResponse
			if err := getRequest(addr, "/getClient", &response); err != nil {
				return fmt.Errorf("failed to get client: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get client: %s", response.ErrorMessage)
			}
			printClient(&response)
			return nil
		},
	}
}

func getStateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_state",
		Short: "shows the workflow state and which steps are enabled",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response WorkflowStateResponse
			if err := getRequest(addr, "/getWorkflowState", &response); err != nil {
				return fmt.Errorf("failed to get workflow state: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get workflow state: %s", response.ErrorMessage)
			}

			status := response.Result
			fmt.Printf("State: %s\n", status.State)
			if status.ClientID != "" {
				fmt.Printf("Client: %s\n", status.ClientID)
			}
			fmt.Printf("Attachments: %d (confirmed: %v)\n", status.AttachmentCount, status.AttachmentsConfirmed)
			if status.ContractEnabled {
				color.Green("Contract generation is enabled")
			} else {
				color.Yellow("Contract generation is not enabled yet")
			}
			return nil
		},
	}
}

func addAttachmentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add_attachments [files...]",
		Args:  cobra.MinimumNArgs(1),
		Short: "uploads document scans into the current workflow",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var body bytes.Buffer
			writer := multipart.NewWriter(&body)
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %q: %w", path, err)
				}
				part, err := writer.CreateFormFile("anexos", filepath.Base(path))
				if err != nil {
					return fmt.Errorf("failed to build multipart form: %w", err)
				}
				if _, err := part.Write(data); err != nil {
					return fmt.Errorf("failed to write multipart form: %w", err)
				}
			}
			if err := writer.Close(); err != nil {
				return fmt.Errorf("failed to close multipart form: %w", err)
			}

			resp, err := http.Post(
				fmt.Sprintf("http://%s/addAttachments", addr),
				writer.FormDataContentType(),
				&body,
			)
			if err != nil {
				return fmt.Errorf("failed to add attachments: %w", err)
			}
			defer resp.Body.Close()

			responseBody, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read body: %w", err)
			}

			var response OperationResponse
			if err := json.Unmarshal(responseBody, &response); err != nil {
				return fmt.Errorf("failed to unmarshal response: %v", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to add attachments: %s", response.ErrorMessage)
			}
			color.Green("%d attachment(s) added", len(args))
			return nil
		},
	}
}

func confirmAttachmentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm_attachments",
		Short: "confirms the uploaded documents for the loaded client",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response OperationResponse
			if err := postRequest(addr, "/confirmAttachments", nil, &response); err != nil {
				return fmt.Errorf("failed to confirm attachments: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to confirm attachments: %s", response.ErrorMessage)
			}
			color.Green("attachments confirmed")
			return nil
		},
	}
}

func getAttachmentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_attachments",
		Short: "lists the preview files of the uploaded documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response AttachmentsResponse
			if err := getRequest(addr, "/getAttachments", &response); err != nil {
				return fmt.Errorf("failed to get attachments: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get attachments: %s", response.ErrorMessage)
			}
			for _, preview := range response.Result {
				fmt.Println(preview)
			}
			return nil
		},
	}
}

func openSignatureCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open_signature [role]",
		Args:  cobra.ExactArgs(1),
		Short: "opens the signature pad for buyer, seller, witness1 or witness2",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response OperationResponse
			err = postRequest(addr, "/openSignature", map[string]string{"role": args[0]}, &response)
			if err != nil {
				return fmt.Errorf("failed to open signature pad: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to open signature pad: %s", response.ErrorMessage)
			}
			color.Green("signature pad opened for %s", args[0])
			return nil
		},
	}
}

func drawSignatureCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "draw_signature [strokes.json]",
		Args:  cobra.ExactArgs(1),
		Short: "draws strokes from a JSON file onto the open signature pad",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read strokes file: %w", err)
			}
			var strokes json.RawMessage
			if err := json.Unmarshal(data, &strokes); err != nil {
				return fmt.Errorf("failed to parse strokes file: %v", err)
			}

			var response OperationResponse
			err = postRequest(addr, "/drawSignature", map[string]json.RawMessage{"strokes": strokes}, &response)
			if err != nil {
				return fmt.Errorf("failed to draw signature: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to draw signature: %s", response.ErrorMessage)
			}
			color.Green("strokes drawn")
			return nil
		},
	}
}

func clearSignatureCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear_signature",
		Short: "clears the open signature pad",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response OperationResponse
			if err := postRequest(addr, "/clearSignature", nil, &response); err != nil {
				return fmt.Errorf("failed to clear signature: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to clear signature: %s", response.ErrorMessage)
			}
			color.Green("signature pad cleared")
			return nil
		},
	}
}

func confirmSignatureCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm_signature",
		Short: "confirms the drawing on the pad; an empty pad cancels the capture",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response OperationResponse
			if err := postRequest(addr, "/confirmSignature", nil, &response); err != nil {
				return fmt.Errorf("failed to confirm signature: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to confirm signature: %s", response.ErrorMessage)
			}
			if response.Result == "cancelled" {
				color.Yellow("empty pad, capture cancelled")
			} else {
				color.Green("signature stored")
			}
			return nil
		},
	}
}

func closeSignatureCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "close_signature",
		Short: "closes the signature pad without storing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response OperationResponse
			if err := postRequest(addr, "/closeSignature", nil, &response); err != nil {
				return fmt.Errorf("failed to close signature pad: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to close signature pad: %s", response.ErrorMessage)
			}
			color.Green("signature pad closed")
			return nil
		},
	}
}

func getSignaturesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_signatures",
		Short: "shows which roles already signed",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response SignaturesResponse
			if err := getRequest(addr, "/getSignatures", &response); err != nil {
				return fmt.Errorf("failed to get signatures: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get signatures: %s", response.ErrorMessage)
			}

			for role, signed := range response.Result.Signatures {
				if signed {
					color.Green("%s: signed", role)
				} else {
					color.Yellow("%s: pending", role)
				}
			}
			if response.Result.ActiveRole != "" {
				fmt.Printf("pad open for: %s\n", response.Result.ActiveRole)
			}
			return nil
		},
	}
}

func submitContractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "submit_contract",
		Short: "assembles and submits the contract for the loaded client",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response SubmitContractResponse
			if err := postRequest(addr, "/submitContract", nil, &response); err != nil {
				return fmt.Errorf("failed to submit contract: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to submit contract: %s", response.ErrorMessage)
			}

			color.Green("contract generated: %s", response.Result.ContractURL)
			if response.Result.QrPath != "" {
				fmt.Printf("hand-off QR code: %s\n", response.Result.QrPath)
			}
			return nil
		},
	}
}

func listContractsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list_contracts",
		Short: "lists the contracts already rendered by the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response ContractsResponse
			if err := getRequest(addr, "/listContracts", &response); err != nil {
				return fmt.Errorf("failed to list contracts: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to list contracts: %s", response.ErrorMessage)
			}
			for _, contract := range response.Result {
				fmt.Println(contract)
			}
			return nil
		},
	}
}

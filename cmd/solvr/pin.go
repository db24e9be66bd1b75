package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"solvr-go/solvr"
)

// pin command
var pinCmd = &cobra.Command{
	Use:   "pin",
	Short: "Manage IPFS pins",
}

var pinAddCmd = &cobra.Command{
	Use:   "add CID",
	Short: "Pin a CID that already exists on the IPFS network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")

		client, err := newClient()
		if err != nil {
			return err
		}

		pin, err := client.CreatePin(cmd.Context(), solvr.CreatePinRequest{CID: args[0], Name: name})
		if err != nil {
			return err
		}

		printPin(pin)
		return nil
	},
}

var pinLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List your pins",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")

		client, err := newClient()
		if err != nil {
			return err
		}

		var opts *solvr.ListPinsOptions
		if status != "" {
			opts = &solvr.ListPinsOptions{Status: status}
		}
		list, err := client.ListPins(cmd.Context(), opts)
		if err != nil {
			return err
		}

		if list.Count == 0 {
			fmt.Println("No pins found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "REQUEST\tSTATUS\tCID\tNAME")
		for _, pin := range list.Results {
			name := pin.Pin.Name
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", pin.RequestID, pin.Status, pin.Pin.CID, name)
		}
		return w.Flush()
	},
}

var pinStatusCmd = &cobra.Command{
	Use:   "status REQUEST_ID",
	Short: "Check the status of a pin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		pin, err := client.GetPin(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printPin(pin)
		return nil
	},
}

var pinRmCmd = &cobra.Command{
	Use:   "rm REQUEST_ID",
	Short: "Remove a pin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if err := client.DeletePin(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Printf("Pin %s removed\n", args[0])
		return nil
	},
}

var pinAddFileCmd = &cobra.Command{
	Use:   "add-file PATH",
	Short: "Upload a file to IPFS and pin it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")

		client, err := newClient()
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening file: %w", err)
		}
		defer f.Close()

		upload, err := client.AddFile(cmd.Context(), filepath.Base(args[0]), f)
		if err != nil {
			return err
		}

		if name == "" {
			name = filepath.Base(args[0])
		}
		pin, err := client.CreatePin(cmd.Context(), solvr.CreatePinRequest{CID: upload.CID, Name: name})
		if err != nil {
			return err
		}

		fmt.Printf("Uploaded %s (%d bytes)\n", upload.CID, upload.Size)
		printPin(pin)
		return nil
	},
}

func printPin(pin *solvr.Pin) {
	fmt.Printf("Pin:     %s\n", pin.RequestID)
	fmt.Printf("CID:     %s\n", pin.Pin.CID)
	fmt.Printf("Status:  %s\n", pin.Status)
	if pin.Pin.Name != "" {
		fmt.Printf("Name:    %s\n", pin.Pin.Name)
	}
	if pin.Created != "" {
		fmt.Printf("Created: %s\n", pin.Created)
	}
}

func init() {
	pinAddCmd.Flags().String("name", "", "Optional name for the pin")
	pinLsCmd.Flags().String("status", "", "Filter by status: queued, pinning, pinned or failed")
	pinAddFileCmd.Flags().String("name", "", "Optional name for the pin")

	pinCmd.AddCommand(pinAddCmd)
	pinCmd.AddCommand(pinLsCmd)
	pinCmd.AddCommand(pinStatusCmd)
	pinCmd.AddCommand(pinRmCmd)
	pinCmd.AddCommand(pinAddFileCmd)

	rootCmd.AddCommand(pinCmd)
}

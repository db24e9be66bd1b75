package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/spf13/cobra"

	"solvr-go/internal/app"
	"solvr-go/internal/config"
	"solvr-go/internal/provision"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when it does
// not exist yet.
func loadConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}
	cfg, err := config.Load(defaults["config_path"], defaults["base_dir"], defaults["ssh_dir"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// newApp creates a fully wired InfraApp. The caller must defer a.Close().
func newApp(cmd *cobra.Command) (*app.InfraApp, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a, err := app.NewInfraApp(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "solvr-infra",
	Short: "Provision Solvr infrastructure on Hetzner Cloud",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"], defaults["ssh_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		fmt.Printf("SSH Dir:  %s\n", defaults["ssh_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("SSH Dir:   %s\n", cfg.SSHDir)
		fmt.Printf("Store:     %s\n", cfg.Store.Type)
		switch cfg.Store.Type {
		case "filesystem":
			fmt.Printf("Store Dir: %s\n", cfg.Store.Dir)
		case "s3":
			fmt.Printf("S3 Bucket: %s\n", cfg.Store.S3Bucket)
		}
		return nil
	},
}

// provision command
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create a server",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		purpose, _ := cmd.Flags().GetString("purpose")
		serverType, _ := cmd.Flags().GetString("type")
		location, _ := cmd.Flags().GetString("location")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Provision(cmd.Context(), provision.Request{
			Name:     name,
			Purpose:  purpose,
			Type:     serverType,
			Location: location,
		})
		if err != nil {
			return fmt.Errorf("provisioning: %w", err)
		}

		inst := res.Instance
		if res.AlreadyExists {
			fmt.Printf("Server %s already exists at %s\n", inst.Name, inst.IP)
			return nil
		}

		fmt.Printf("Server %s provisioned at %s\n", inst.Name, inst.IP)
		if !res.SSHReady {
			fmt.Println("SSH is not answering yet; the server may still be booting.")
		}
		fmt.Printf("Connect with: ssh -i %s root@%s\n", inst.SSHKeyPath, inst.IP)
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List managed servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		servers, err := a.List(cmd.Context())
		if err != nil {
			return err
		}

		if len(servers) == 0 {
			fmt.Println("No managed servers found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tIP\tTYPE\tLOCATION\tSTATUS\tSERVICE")
		for _, s := range servers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				s.Name, s.IP, s.Type, s.Location, s.Status, s.Labels["service"])
		}
		return w.Flush()
	},
}

// destroy command
var destroyCmd = &cobra.Command{
	Use:   "destroy NAME",
	Short: "Destroy a server and its local state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		yes, _ := cmd.Flags().GetBool("yes")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		// Look up first so the prompt can show the target's address and
		// an unknown name never reaches the confirmation.
		srv, err := a.Lookup(cmd.Context(), name)
		if errors.Is(err, provision.ErrServerNotFound) {
			fmt.Printf("Server %s not found\n", name)
			return nil
		}
		if err != nil {
			return err
		}

		if !yes {
			ok, err := confirmDestroy(name, srv.IP)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := a.Destroy(cmd.Context(), name); err != nil {
			return fmt.Errorf("destroying: %w", err)
		}

		fmt.Printf("Server %s destroyed\n", name)
		return nil
	},
}

// destroyPrompt is the confirmation line shown before a destroy, naming
// the server and its address so the operator can verify the target.
func destroyPrompt(name, ip string) string {
	return fmt.Sprintf("Destroy server %s (%s) and delete its metadata? [y/N]: ", name, ip)
}

// confirmDestroy prompts for confirmation on a terminal. Without a
// terminal the prompt cannot be answered, so --yes is required.
func confirmDestroy(name, ip string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("stdin is not a terminal; pass --yes to destroy %s", name)
	}

	fmt.Print(destroyPrompt(name, ip))
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// status command
var statusCmd = &cobra.Command{
	Use:   "status NAME",
	Short: "Show server status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.Status(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		s := report.Server
		fmt.Printf("Name:     %s\n", s.Name)
		fmt.Printf("IP:       %s\n", s.IP)
		fmt.Printf("Type:     %s\n", s.Type)
		fmt.Printf("Location: %s\n", s.Location)
		fmt.Printf("Status:   %s\n", s.Status)

		if m := report.Metadata; m != nil {
			fmt.Printf("Purpose:  %s\n", m.Purpose)
			fmt.Printf("Created:  %s\n", m.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Printf("SSH Key:  %s\n", m.SSHKeyPath)
		} else {
			fmt.Println("No local metadata for this server.")
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	provisionCmd.Flags().String("name", "", "Server name (required)")
	provisionCmd.Flags().String("purpose", "", "Server purpose: ipfs, api or cluster")
	provisionCmd.Flags().String("type", "", "Override the preset machine type")
	provisionCmd.Flags().String("location", "", "Datacenter: nbg1, fsn1, hel1, ash or hil")
	provisionCmd.MarkFlagRequired("name")

	destroyCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(destroyCmd)
	rootCmd.AddCommand(statusCmd)
}

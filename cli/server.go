package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/gesture-next/gesturecli/daemon"
	"github.com/gesture-next/gesturecli/server"
	"github.com/gesture-next/gesturecli/utils"
	"github.com/spf13/cobra"
)

// splitHostPort parses "host:port", defaulting the host to localhost when
// only a port is given.
func splitHostPort(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	if host == "" {
		host = "127.0.0.1"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid listen port %q: %w", portStr, err)
	}
	return host, port, nil
}

const defaultServerAddress = "localhost:12700"

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server management commands",
	Long:  `Commands for managing the gesturecli server.`,
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the gesture server",
	Long:  `Starts the websocket gesture server.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr := cmd.Flag("listen").Value.String()
		if listenAddr == "" {
			listenAddr = defaultServerAddress
		}

		// GetBool/GetString cannot fail for defined flags
		enableCORS, _ := cmd.Flags().GetBool("cors")
		isDaemon, _ := cmd.Flags().GetBool("daemon")
		requireAuth, _ := cmd.Flags().GetBool("auth")

		engineCfg, err := engineConfig(configPath)
		if err != nil {
			return err
		}

		var authToken string
		if requireAuth {
			authToken, err = storedToken()
			if err != nil {
				return fmt.Errorf("--auth requires a token; run 'gesturecli auth generate' first: %w", err)
			}
		}

		if isDaemon && !daemon.IsChild() {
			// fail fast before detaching: a daemonized child cannot
			// report a bind failure back to this terminal
			host, port, err := splitHostPort(listenAddr)
			if err != nil {
				return err
			}
			if !utils.IsPortAvailable(host, port) {
				return fmt.Errorf("port %d is already in use on %s", port, host)
			}

			_, err = daemon.Daemonize()
			if err != nil {
				return fmt.Errorf("failed to start daemon: %w", err)
			}

			fmt.Printf("Server daemon spawned, attempting to listen on %s\n", listenAddr)
			return nil
		}

		return server.StartServer(server.ServerConfig{
			Addr:       listenAddr,
			EnableCORS: enableCORS,
			AuthToken:  authToken,
			Engine:     engineCfg,
		})
	},
}

var serverKillCmd = &cobra.Command{
	Use:   "kill",
	Short: "Stop the daemonized gesture server",
	Long:  `Connects to the server and sends a shutdown command via JSON-RPC.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// GetString cannot fail for defined flags
		addr, _ := cmd.Flags().GetString("listen")
		if addr == "" {
			addr = defaultServerAddress
		}

		err := daemon.KillServer(addr)
		if err != nil {
			return err
		}

		fmt.Printf("Server shutdown command sent successfully\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// add server subcommands
	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverKillCmd)

	// server start flags
	serverStartCmd.Flags().String("listen", "", "Address to listen on (e.g., 'localhost:12700' or '0.0.0.0:13000')")
	serverStartCmd.Flags().Bool("cors", false, "Enable CORS support")
	serverStartCmd.Flags().BoolP("daemon", "d", false, "Run server in daemon mode (background)")
	serverStartCmd.Flags().Bool("auth", false, "Require the stored API token as a bearer token")
	serverStartCmd.Flags().StringVar(&configPath, "config", "", "Path to an ini file with gesture thresholds")

	// server kill flags
	serverKillCmd.Flags().String("listen", "", fmt.Sprintf("Address of server to kill (default: %s)", defaultServerAddress))
}

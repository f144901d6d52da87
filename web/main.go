package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/df07/go-rayjay/web/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCommand()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "rayjay-web",
		Short: "Serve progressive renders over Server-Sent Events",
		Long: "Start the web server. Renders stream to the browser tile by tile and pass by pass.\n" +
			"Scenes come from the built-in set and the scenes directory.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Printf("Progressive Raytracer Web Server\n")
			cmd.Printf("Visit http://localhost:%d to start rendering\n", port)
			return server.NewServer(port).Run(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to serve on")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hh727w/portfolio-api/pkg/contactclient"
	"github.com/hh727w/portfolio-api/pkg/contactform"
	"github.com/hh727w/portfolio-api/pkg/httpclient"
	"github.com/hh727w/portfolio-api/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "CONTACT_CLI"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "contact",
		Short:         "Send messages through the portfolio contact endpoint",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "warn", "Logging level: debug, info, warn, error")

	root.AddCommand(newSendCmd(out))
	return root
}

func newSendCmd(out io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Submit one contact message",
		Example: `  contact send --name "Ada Lovelace" --email ada@example.com \
    --message "Hello, I'd like to collaborate!"`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			return v.BindPFlag("log-level", cmd.Root().PersistentFlags().Lookup("log-level"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Initialize(logger.Config{
				Level:       v.GetString("log-level"),
				Environment: "development",
				ServiceName: "contact-cli",
			}); err != nil {
				return err
			}
			defer logger.Sync()

			return runSend(cmd.Context(), out, v)
		},
	}

	flags := cmd.Flags()
	flags.String("endpoint", "http://localhost:8080/api/contact", "Contact endpoint URL")
	flags.String("name", "", "Your name")
	flags.String("email", "", "Your email address")
	flags.String("message", "", "Message text")
	flags.String("company", "", "Honeypot value; leave empty")
	flags.Duration("timeout", 15*time.Second, "Request timeout")

	return cmd
}

func runSend(ctx context.Context, out io.Writer, v *viper.Viper) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, v.GetDuration("timeout"))
	defer cancel()

	ctrl, err := contactclient.New(contactclient.Options{
		Endpoint:   v.GetString("endpoint"),
		HTTPClient: httpclient.NewStandardClient(),
	})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	ctrl.OnChange(func(s contactclient.Status) {
		logger.Debug("Form status changed", zap.Stringer("phase", s.Phase), zap.String("message", s.Message))
	})
	ctrl.SetForm(contactform.Payload{
		Name:    v.GetString("name"),
		Email:   v.GetString("email"),
		Message: v.GetString("message"),
		Company: v.GetString("company"),
	})

	if err := ctrl.Submit(ctx); err != nil {
		return err
	}

	fmt.Fprintln(out, "Message sent.")
	return nil
}

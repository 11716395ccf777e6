package main

import (
	"github.com/spf13/cobra"
	"github.com/viant/qworker/service/secret"
	"github.com/viant/qworker/service/storage"
)

func newPurgeCommand(f *flags) *cobra.Command {
	var credentials, credentialsKey string
	cmd := &cobra.Command{
		Use:   "purge DEST",
		Short: "Delete every object under DEST",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(cmd, f)
			if err != nil {
				return err
			}
			defer a.close()

			opts := []storage.Option{storage.WithLogger(a.logger)}
			if credentials != "" {
				data, err := secret.New().Reveal(ctx, credentials, credentialsKey)
				if err != nil {
					return err
				}
				opts = append(opts, storage.WithCredentials(data))
			}
			destination, err := storage.New(ctx, args[0], opts...)
			if err != nil {
				return err
			}
			defer destination.Close()
			count, err := destination.Purge(ctx)
			if err != nil {
				return err
			}
			a.logger.Info("destination purged", "url", destination.URL(), "deleted", count)
			return nil
		},
	}
	cmd.Flags().StringVar(&credentials, "credentials", "", "URL of scy-encrypted GCS service account credentials")
	cmd.Flags().StringVar(&credentialsKey, "credentials-key", secret.DefaultKey, "scy key used to decrypt credentials")
	return cmd
}

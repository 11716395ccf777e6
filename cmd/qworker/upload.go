package main

import (
	"github.com/spf13/cobra"
	"github.com/viant/qworker"
	"github.com/viant/qworker/model/types"
	"github.com/viant/qworker/service/secret"
	"github.com/viant/qworker/service/storage"
	"golang.org/x/time/rate"
)

type uploadFlags struct {
	overwrite      bool
	rate           float64
	maxAttempts    int
	credentials    string
	credentialsKey string
}

func newUploadCommand(f *flags) *cobra.Command {
	uf := &uploadFlags{}
	cmd := &cobra.Command{
		Use:   "upload SRC DEST",
		Short: "Upload every file under SRC to DEST (gs://bucket/prefix or any afs URL)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(cmd, f)
			if err != nil {
				return err
			}
			defer a.close()

			var storageOptions []storage.Option
			storageOptions = append(storageOptions, storage.WithLogger(a.logger))
			if uf.credentials != "" {
				credentials, err := secret.New().Reveal(ctx, uf.credentials, uf.credentialsKey)
				if err != nil {
					return err
				}
				storageOptions = append(storageOptions, storage.WithCredentials(credentials))
			}

			walker, err := storage.NewWalker(ctx, args[0], storageOptions...)
			if err != nil {
				return err
			}
			limiter := rate.NewLimiter(rate.Inf, 1)
			if uf.rate > 0 {
				limiter = rate.NewLimiter(rate.Limit(uf.rate), 1)
			}

			var consumers []types.Consumer[*storage.Asset]
			release := func() {
				for _, consumer := range consumers {
					_ = consumer.Close()
				}
			}
			for i := 0; i < a.config.ConsumerCount(); i++ {
				destination, err := storage.New(ctx, args[1], storageOptions...)
				if err != nil {
					release()
					return err
				}
				consumers = append(consumers, storage.NewUploader(destination,
					storage.WithOverwrite(uf.overwrite),
					storage.WithMaxAttempts(uf.maxAttempts),
					storage.WithLimiter(limiter),
					storage.WithUploaderLogger(a.logger)))
			}

			srv, err := qworker.New[*storage.Asset](walker, consumers, append(a.options, qworker.WithName("upload"))...)
			if err != nil {
				release()
				return err
			}
			return srv.Start(ctx)
		},
	}
	fl := cmd.Flags()
	fl.BoolVar(&uf.overwrite, "overwrite", false, "replace objects that already exist")
	fl.Float64Var(&uf.rate, "rate", 0, "maximum destination calls per second across consumers, 0 means unlimited")
	fl.IntVar(&uf.maxAttempts, "max-attempts", storage.DefaultMaxAttempts, "upload attempts per file")
	fl.StringVar(&uf.credentials, "credentials", "", "URL of scy-encrypted GCS service account credentials")
	fl.StringVar(&uf.credentialsKey, "credentials-key", secret.DefaultKey, "scy key used to decrypt credentials")
	return cmd
}

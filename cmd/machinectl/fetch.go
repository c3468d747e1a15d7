package main

import (
	"context"
	"fmt"
	"time"

	"github.com/matst80/laser-finder/pkg/config"
	"github.com/matst80/laser-finder/pkg/messaging"
	"github.com/matst80/laser-finder/pkg/storage"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// notifyChanged tells running finders to refresh.
func notifyChanged(ctx context.Context, rabbitUrl, prefix string, count int) error {
	conn, err := amqp.Dial(rabbitUrl)
	if err != nil {
		return fmt.Errorf("connect rabbit: %w", err)
	}
	defer conn.Close()
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	err = messaging.DefineTopic(ch, prefix, messaging.MachinesChanged)
	ch.Close()
	if err != nil {
		return err
	}
	return messaging.SendChange(ctx, conn, prefix, messaging.MachinesChanged, messaging.MachinesChangedEvent{
		Source: "machinectl",
		Count:  count,
		At:     time.Now(),
	})
}

func newFetchCmd() *cobra.Command {
	var url, dataDir, rabbitUrl, prefix string
	var limit int
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the machines and write the snapshot the finder restores on start",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				return fmt.Errorf("--url is required")
			}
			raws, err := storage.NewHTTPSource(url).Fetch(cmd.Context(), config.ClampLimit(limit))
			if err != nil {
				return err
			}
			disk := storage.NewDiskStorage(dataDir)
			if err := disk.SaveMachines(raws); err != nil {
				return err
			}
			logger.Info("saved machine snapshot", zap.Int("machines", len(raws)), zap.String("dir", dataDir))
			if rabbitUrl != "" {
				if err := notifyChanged(cmd.Context(), rabbitUrl, prefix, len(raws)); err != nil {
					return err
				}
				logger.Info("published machines changed", zap.String("prefix", prefix))
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved %d machines to %s\n", len(raws), dataDir)
			return err
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "base url serving /api/machines")
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "snapshot directory")
	cmd.Flags().StringVar(&rabbitUrl, "notify", "", "rabbitmq url to publish machines_changed on")
	cmd.Flags().StringVar(&prefix, "prefix", config.Default().Rabbit.Prefix, "rabbitmq topic prefix")
	cmd.Flags().IntVar(&limit, "limit", config.DefaultFetchLimit, "number of machines to fetch")
	return cmd
}

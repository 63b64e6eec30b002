package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/yeisme/shipdocs/pkg/internal/service"
	"github.com/yeisme/shipdocs/pkg/internal/storage/db"
	s3c "github.com/yeisme/shipdocs/pkg/internal/storage/s3"
	"github.com/yeisme/shipdocs/pkg/internal/types"
)

var (
	orphanPurge  bool
	orphanMinAge time.Duration
	orphanPrefix string

	documentsCmd = &cobra.Command{
		Use:     "documents",
		Short:   "Document storage maintenance commands",
		Aliases: []string{"docs"},
	}

	orphansCmd = &cobra.Command{
		Use:   "orphans",
		Short: "report blobs without metadata and metadata without blobs",
		Long: "Compare the object store against the documents table. " +
			"Nothing is deleted unless --purge is given, and only orphaned blobs are ever purged.",
		RunE: runOrphans,
	}
)

func runOrphans(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	dbClient, err := db.New(ctx, &cfg.DB, cfg.Server.Debug)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	s3Client, err := s3c.New(ctx, &cfg.S3)
	if err != nil {
		return err
	}

	blobs := s3c.NewBlobStore(s3Client, &cfg.S3)

	prefix := cfg.Sweep.Prefix
	if cmd.Flags().Changed("prefix") {
		prefix = orphanPrefix
	}

	report, err := service.FindOrphans(ctx, blobs, db.NewDocumentRepo(dbClient), service.OrphanScan{
		Prefix: prefix,
		MinAge: orphanMinAge,
	})
	if err != nil {
		return err
	}

	resp := types.OrphanReportResponse{
		ScannedBlobs:   report.ScannedBlobs,
		ReferencedKeys: report.ReferencedKeys,
		OrphanedBlobs:  report.OrphanedBlobs,
		DanglingKeys:   report.DanglingKeys,
		GeneratedAt:    report.GeneratedAt,
	}

	var purgeErr error
	if orphanPurge {
		resp.PurgedBlobs, purgeErr = service.PurgeOrphans(ctx, blobs, report)
	}

	b, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	fmt.Fprintf(cmd.ErrOrStderr(), "%s blobs scanned, %s orphaned, %s dangling\n",
		humanize.Comma(int64(report.ScannedBlobs)),
		humanize.Comma(int64(len(report.OrphanedBlobs))),
		humanize.Comma(int64(len(report.DanglingKeys))),
	)

	if purgeErr != nil {
		return errors.Join(errors.New("some orphaned blobs could not be purged"), purgeErr)
	}

	return nil
}

// registerDocumentsCommands 注册文档运维命令.
func registerDocumentsCommands() {
	orphansCmd.Flags().BoolVar(&orphanPurge, "purge", false, "delete the orphaned blobs found by this run")
	orphansCmd.Flags().DurationVar(&orphanMinAge, "min-age", service.DefaultOrphanMinAge, "ignore blobs younger than this")
	orphansCmd.Flags().StringVar(&orphanPrefix, "prefix", "", "object key prefix to scan (defaults to sweep.prefix)")

	documentsCmd.AddCommand(orphansCmd)
	rootCmd.AddCommand(documentsCmd)
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ohs/ohs/internal/config"
	"github.com/ohs/ohs/internal/platform/auth"
	"github.com/ohs/ohs/internal/platform/db"
	"github.com/ohs/ohs/internal/report"
	"github.com/ohs/ohs/internal/report/render"
)

type reportFlags struct {
	format   string
	outDir   string
	headerID int64
	signer   string
	name     string
}

// reportCmd previews a report in the terminal or writes the rendered file,
// running the same pipeline as the HTTP endpoints.
func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a report from the command line",
	}

	var f reportFlags
	cmd.PersistentFlags().StringVar(&f.format, "format", "text", "text, pdf or xlsx")
	cmd.PersistentFlags().StringVar(&f.outDir, "out", ".", "Directory for pdf and xlsx output")
	cmd.PersistentFlags().Int64Var(&f.headerID, "header-id", 0, "Header asset id (default: latest upload)")
	cmd.PersistentFlags().StringVar(&f.signer, "signer", "", "User id whose signature goes on certificates")
	cmd.PersistentFlags().StringVar(&f.name, "signer-name", "", "Printed name of the signer")

	var subjectID int64
	for _, sub := range []struct {
		use, short, kind string
	}{
		{"employee", "Medical surveillance summary of one subject", report.KindEmployeeSummary},
		{"certificate", "Certificate of fitness of one subject", report.KindCertificate},
	} {
		kind := sub.kind
		c := &cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runReport(cmd, report.Request{Kind: kind, SubjectID: subjectID}, f)
			},
		}
		c.Flags().Int64Var(&subjectID, "subject", 0, "Subject id")
		_ = c.MarkFlagRequired("subject")
		cmd.AddCommand(c)
	}

	var companyRef string
	company := &cobra.Command{
		Use:   "company",
		Short: "Abnormal findings summary of one company",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, report.Request{Kind: report.KindAbnormalSummary, Company: companyRef}, f)
		},
	}
	company.Flags().StringVar(&companyRef, "company", "", "Company id or exact name")
	_ = company.MarkFlagRequired("company")
	cmd.AddCommand(company)

	return cmd
}

func (f reportFlags) options() report.Options {
	var opts report.Options
	if f.headerID > 0 {
		id := f.headerID
		opts.HeaderID = &id
	}
	if f.signer != "" {
		opts.Signer = auth.Principal{UserID: f.signer, Name: f.name, Roles: []string{auth.RoleDoctor}}
	}
	return opts
}

func (f reportFlags) renderer() (render.Renderer, error) {
	if f.format == "text" {
		return render.NewText(), nil
	}
	return render.DefaultRegistry().Lookup(f.format)
}

func runReport(cmd *cobra.Command, req report.Request, f reportFlags) error {
	renderer, err := f.renderer()
	if err != nil {
		return err
	}
	req.Options = f.options()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg.Env)

	ctx := cmd.Context()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()
	store, err := newAssetStore(ctx, cfg)
	if err != nil {
		return err
	}

	doc, err := newApp(pool, store, cfg, logger).reports.Compose(ctx, req)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			color.Red("Not found: %v", err)
		}
		return err
	}
	out, err := report.RenderDocument(doc, renderer)
	if err != nil {
		return err
	}

	if f.format == "text" {
		_, err := cmd.OutOrStdout().Write(out.Data)
		return err
	}
	path := filepath.Join(f.outDir, out.Filename)
	if err := os.WriteFile(path, out.Data, 0o600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	color.Green("Wrote %s (%d bytes)", path, len(out.Data))
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/diillson/kr-realestate-report/internal/application/usecase"
	"github.com/diillson/kr-realestate-report/internal/domain/repository"
	"github.com/diillson/kr-realestate-report/internal/shared/types"
	"github.com/diillson/kr-realestate-report/pkg/console"
	"github.com/diillson/kr-realestate-report/pkg/version"
	"github.com/spf13/cobra"
)

// UseCaseBuilder wires the report use case once flags and configuration are known.
type UseCaseBuilder func(cfg *types.Config, args *types.CLIArgs, console types.ConsoleInterface) (*usecase.ReportUseCase, error)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	configRepo repository.ConfigRepository
	build      UseCaseBuilder
	version    string
	// checkLatest looks up a newer release; replaced in tests.
	checkLatest func(ctx context.Context, current string) (string, bool)
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string, configRepo repository.ConfigRepository) *CLIApp {
	app := &CLIApp{
		version:     versionStr,
		configRepo:  configRepo,
		checkLatest: version.CheckLatestVersion,
	}

	rootCmd := &cobra.Command{
		Use:           "realestate-report",
		Short:         "Korean real-estate public data reports",
		Long:          "Collects apartment trades, population, unsold housing and price index data from Korean public APIs and writes spreadsheet reports.",
		Version:       version.FormatVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate(`{{printf "realestate-report version: %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.StringP("output", "o", "", "Output spreadsheet file name (default depends on the report)")
	flags.StringSliceP("report-type", "y", []string{"xlsx"}, "Extra report types: csv, json, yaml, pdf (xlsx is always written)")
	flags.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	flags.String("s3-uri", "", "Upload the spreadsheet to s3://bucket/prefix after it is written")
	flags.String("aws-profile", "", "AWS profile used for the S3 upload")
	flags.BoolP("verbose", "v", false, "Print debug messages")

	rootCmd.AddCommand(
		app.newRealEstateCmd(),
		app.newPopulationCmd(),
		app.newUnsoldCmd(),
		app.newPriceIndexCmd(),
	)

	app.rootCmd = rootCmd
	return app
}

// SetUseCaseBuilder sets the function that assembles the report use case.
func (app *CLIApp) SetUseCaseBuilder(build UseCaseBuilder) {
	app.build = build
}

// Execute runs the CLI application.
func (app *CLIApp) Execute(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

func (app *CLIApp) newRealEstateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "real-estate",
		Short: "Apartment trade report (raw, by year, by month, by dong)",
		Args:  cobra.NoArgs,
		RunE: app.runner(func(ctx context.Context, uc *usecase.ReportUseCase, args *types.CLIArgs) error {
			_, err := uc.RunRealEstate(ctx, args)
			return err
		}),
	}
	addRegionFlags(cmd, true)
	cmd.Flags().String("start", "", "Start month YYYYMM")
	cmd.Flags().Int("start-year", 0, "Start year YYYY (from January)")
	cmd.Flags().String("end", "", "End month YYYYMM (default: current month)")
	cmd.Flags().Float64("min-area", 0, "Minimum exclusive area in ㎡")
	cmd.Flags().Float64("max-area", 0, "Maximum exclusive area in ㎡")
	cmd.Flags().Int("built-after", 0, "Keep buildings completed in or after this year")
	return cmd
}

func (app *CLIApp) newPopulationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "population",
		Short: "Population and household report",
		Args:  cobra.NoArgs,
		RunE: app.runner(func(ctx context.Context, uc *usecase.ReportUseCase, args *types.CLIArgs) error {
			_, err := uc.RunPopulation(ctx, args)
			return err
		}),
	}
	addRegionFlags(cmd, true)
	addPeriodFlags(cmd)
	return cmd
}

func (app *CLIApp) newUnsoldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unsold",
		Short: "Unsold housing report (monthly and after completion)",
		Args:  cobra.NoArgs,
		RunE: app.runner(func(ctx context.Context, uc *usecase.ReportUseCase, args *types.CLIArgs) error {
			_, err := uc.RunUnsold(ctx, args)
			return err
		}),
	}
	addRegionFlags(cmd, false)
	addPeriodFlags(cmd)
	return cmd
}

func (app *CLIApp) newPriceIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price-index",
		Short: "Monthly apartment sale price index report",
		Args:  cobra.NoArgs,
		RunE: app.runner(func(ctx context.Context, uc *usecase.ReportUseCase, args *types.CLIArgs) error {
			_, err := uc.RunPriceIndex(ctx, args)
			return err
		}),
	}
	addRegionFlags(cmd, false)
	addPeriodFlags(cmd)
	cmd.Flags().String("statbl-id", "", "Statistics table id (default A_2024_00178)")
	return cmd
}

func addRegionFlags(cmd *cobra.Command, withLawdCode bool) {
	cmd.Flags().String("region-name", "", "Region name, e.g. '충청남도 천안시 동남구'")
	if withLawdCode {
		cmd.Flags().String("lawd-cd", "", "5-digit 시군구 code (instead of --region-name)")
	}
}

func addPeriodFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "Start month YYYYMM")
	cmd.Flags().String("end", "", "End month YYYYMM")
}

// runner turns a report function into a cobra RunE: banner, flags, config,
// use case wiring, then the report itself. The release check only runs after a
// successful report.
func (app *CLIApp) runner(run func(context.Context, *usecase.ReportUseCase, *types.CLIArgs) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		displayWelcomeBanner(app.version)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cliArgs, err := parseArgs(cmd)
		if err != nil {
			return err
		}

		cfg, err := app.loadConfig(cliArgs)
		if err != nil {
			return err
		}
		mergeConfig(cmd, cfg, cliArgs)

		if app.build == nil {
			return fmt.Errorf("report use case not configured")
		}
		uc, err := app.build(cfg, cliArgs, console.NewConsole(cliArgs.Verbose))
		if err != nil {
			return err
		}

		if err := run(ctx, uc, cliArgs); err != nil {
			return err
		}

		if v, ok := app.checkLatest(ctx, app.version); ok {
			displayUpdateNotice(app.version, v)
		}
		return nil
	}
}

func (app *CLIApp) loadConfig(args *types.CLIArgs) (*types.Config, error) {
	cfg := types.DefaultConfig()
	if args.ConfigFile != "" {
		loaded, err := app.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	creds, err := app.configRepo.LoadCredentials()
	if err != nil {
		return nil, err
	}
	cfg.Credentials = creds
	return cfg, nil
}

// mergeConfig applies config file values to flags the user did not set, and
// copies explicit flags back so the config reflects the effective run.
func mergeConfig(cmd *cobra.Command, cfg *types.Config, args *types.CLIArgs) {
	flags := cmd.Flags()

	if !flags.Changed("report-type") && len(cfg.ReportType) > 0 {
		args.ReportType = cfg.ReportType
	}
	if !flags.Changed("dir") && cfg.Dir != "" {
		args.Dir = cfg.Dir
	}
	if !flags.Changed("s3-uri") && cfg.S3URI != "" {
		args.S3URI = cfg.S3URI
	}
	if !flags.Changed("aws-profile") && cfg.AWSProfile != "" {
		args.AWSProfile = cfg.AWSProfile
	}

	cfg.ReportType = args.ReportType
	cfg.Dir = args.Dir
	cfg.S3URI = args.S3URI
	cfg.AWSProfile = args.AWSProfile
}

// parseArgs reads the flags of cmd into a CLIArgs. Flags a subcommand does not
// define stay at their zero value.
func parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	flags := cmd.Flags()
	str := func(name string) string {
		v, _ := flags.GetString(name)
		return v
	}
	num := func(name string) int {
		v, _ := flags.GetInt(name)
		return v
	}
	optFloat := func(name string) *float64 {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetFloat64(name)
		return &v
	}

	reportType, _ := flags.GetStringSlice("report-type")
	verbose, _ := flags.GetBool("verbose")

	dir := str("dir")
	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	} else if cwd, err := os.Getwd(); err == nil {
		dir = cwd
	}

	return &types.CLIArgs{
		ConfigFile: str("config-file"),
		Output:     str("output"),
		ReportType: reportType,
		Dir:        dir,
		S3URI:      str("s3-uri"),
		AWSProfile: str("aws-profile"),
		Verbose:    verbose,

		RegionName: str("region-name"),
		LawdCode:   str("lawd-cd"),
		Start:      str("start"),
		StartYear:  num("start-year"),
		End:        str("end"),
		MinArea:    optFloat("min-area"),
		MaxArea:    optFloat("max-area"),
		BuiltAfter: num("built-after"),
		StatblID:   str("statbl-id"),
	}, nil
}

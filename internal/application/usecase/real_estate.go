package usecase

import (
	"context"
	"fmt"

	"github.com/diillson/kr-realestate-report/internal/application/aggregate"
	"github.com/diillson/kr-realestate-report/internal/application/pagination"
	"github.com/diillson/kr-realestate-report/internal/domain/entity"
	"github.com/diillson/kr-realestate-report/internal/shared/types"
)

// Fields of an apartment trade record.
const (
	fieldSggCode   = "sggCd"
	fieldDong      = "umdNm"
	fieldAptName   = "aptNm"
	fieldJibun     = "jibun"
	fieldDealYear  = "dealYear"
	fieldDealMonth = "dealMonth"
	fieldDealDay   = "dealDay"
	fieldAmount    = "dealAmount"
	fieldFloor     = "floor"
)

var tradeColumns = []string{
	fieldSggCode, fieldDong, fieldAptName, fieldJibun,
	aggregate.FieldArea, fieldDealYear, fieldDealMonth, fieldDealDay,
	fieldAmount, fieldFloor, aggregate.FieldBuildYear,
}

// RealEstateResult is what RunRealEstate produced, for callers and tests.
type RealEstateResult struct {
	Filter        entity.QueryFilter
	Records       []entity.RawRecord
	MonthlyCounts []types.PeriodValue
	ByYear        entity.ReportTable
	ByMonth       entity.ReportTable
	ByDong        entity.ReportTable
}

// RunRealEstate collects apartment trades month by month, applies the area and
// built-after filters, and writes the raw and aggregated sheets.
func (uc *ReportUseCase) RunRealEstate(ctx context.Context, args *types.CLIArgs) (*RealEstateResult, error) {
	if err := uc.validateOutputArgs(args); err != nil {
		return nil, err
	}

	start := args.Start
	switch {
	case start != "" && args.StartYear != 0:
		return nil, types.NewValidationError("start", "--start and --start-year are mutually exclusive")
	case start == "" && args.StartYear != 0:
		if args.StartYear < 1000 || args.StartYear > 9999 {
			return nil, types.NewValidationError("start-year", "expected a 4-digit year, got %d", args.StartYear)
		}
		start = fmt.Sprintf("%04d01", args.StartYear)
	case start == "":
		return nil, types.NewValidationError("start", "one of --start or --start-year is required")
	}

	region, err := uc.resolveLawdRegion(args)
	if err != nil {
		return nil, err
	}

	filter, err := entity.NewQueryFilter(entity.QueryFilterParams{
		Region:     region,
		Start:      start,
		End:        uc.endMonth(args),
		MinArea:    args.MinArea,
		MaxArea:    args.MaxArea,
		BuiltAfter: args.BuiltAfter,
	})
	if err != nil {
		return nil, err
	}
	if err := requireKey(types.EnvPublicDataKey, uc.settings.Credentials.PublicDataKey); err != nil {
		return nil, err
	}

	uc.console.LogInfo("Collecting apartment trades for %s (%s) from %s to %s",
		region.Name, region.Code, filter.Start(), filter.End())

	records, monthly, err := uc.collectTrades(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		uc.console.LogWarning("No trades matched the filters; writing empty sheets")
	}

	result := &RealEstateResult{
		Filter:        filter,
		Records:       records,
		MonthlyCounts: monthly,
		ByYear:        aggregate.Aggregate(records, aggregate.ByField("년도", fieldDealYear), tradeMetrics()...),
		ByMonth:       aggregate.Aggregate(records, yearMonthGrouping(), tradeMetrics()...),
		ByDong: aggregate.Aggregate(records, aggregate.ByField("법정동", fieldDong),
			aggregate.Metric{Name: "거래건수", Kind: aggregate.Count},
			aggregate.Metric{Name: "평균거래금액(만원)", Field: fieldAmount, Kind: aggregate.Average},
		),
	}

	uc.displayMonthlySummary(monthly, len(records))
	uc.console.DisplayTrendBars("Apartment Trades per Year", tableTrend(result.ByYear, 0))

	sheets := []entity.Sheet{
		entity.RawSheet("raw", tradeColumns, records),
		result.ByYear.Sheet("by_year"),
		result.ByMonth.Sheet("by_month"),
		result.ByDong.Sheet("by_dong"),
	}
	if err := uc.export(ctx, "Apartment Trades "+region.Name, sheets, args, "real_estate.xlsx"); err != nil {
		return result, err
	}
	return result, nil
}

func (uc *ReportUseCase) collectTrades(ctx context.Context, filter entity.QueryFilter) ([]entity.RawRecord, []types.PeriodValue, error) {
	months := filter.Months()
	paginator := uc.paginator(uc.fetchers.AptTrade)
	progress := uc.console.ProgressWithTotal(len(months))
	defer progress.Stop()

	var records []entity.RawRecord
	monthly := make([]types.PeriodValue, 0, len(months))

	for _, ym := range months {
		params := map[string]string{
			entity.ParamLawdCode: filter.Region().Code,
			entity.ParamDealYM:   ym.String(),
		}
		fetched, err := pagination.Collect(paginator.Records(ctx, params))
		if err != nil {
			return nil, nil, fmt.Errorf("collecting trades for %s: %w", ym, err)
		}

		kept := aggregate.FilterRecords(fetched, filter)
		records = append(records, kept...)
		monthly = append(monthly, types.PeriodValue{Period: ym.String(), Value: float64(len(kept))})
		uc.console.LogDebug("%s: %d fetched, %d kept", ym, len(fetched), len(kept))
		progress.Increment()
	}

	return records, monthly, nil
}

func tradeMetrics() []aggregate.Metric {
	return []aggregate.Metric{
		{Name: "거래건수", Kind: aggregate.Count},
		{Name: "총거래금액(만원)", Field: fieldAmount, Kind: aggregate.Sum},
		{Name: "평균거래금액(만원)", Field: fieldAmount, Kind: aggregate.Average},
		{Name: "최저거래금액(만원)", Field: fieldAmount, Kind: aggregate.Min},
		{Name: "최고거래금액(만원)", Field: fieldAmount, Kind: aggregate.Max},
		{Name: "평균전용면적(㎡)", Field: aggregate.FieldArea, Kind: aggregate.Average},
	}
}

func yearMonthGrouping() aggregate.Grouping {
	return aggregate.Grouping{
		Columns: []string{"년도", "월"},
		Key: func(r entity.RawRecord) ([]string, bool) {
			year, month := r.Get(fieldDealYear), r.Get(fieldDealMonth)
			return []string{year, month}, year != "" && month != ""
		},
	}
}

func (uc *ReportUseCase) displayMonthlySummary(monthly []types.PeriodValue, total int) {
	table := uc.console.CreateTable()
	table.AddColumn("Month")
	table.AddColumn("Trades")
	for _, m := range monthly {
		table.AddRow(m.Period, int(m.Value))
	}
	table.AddRow("Total", total)
	uc.console.Print(table.Render())
}

// tableTrend turns one metric of a single-key table into trend bar values.
func tableTrend(table entity.ReportTable, metric int) []types.PeriodValue {
	values := make([]types.PeriodValue, 0, len(table.Rows))
	for _, row := range table.Rows {
		if !row.Has(metric) {
			continue
		}
		values = append(values, types.PeriodValue{Period: row.Key[0], Value: row.Values[metric]})
	}
	return values
}

package usecase

import (
	"context"
	"fmt"

	"github.com/diillson/kr-realestate-report/internal/application/aggregate"
	"github.com/diillson/kr-realestate-report/internal/application/pagination"
	"github.com/diillson/kr-realestate-report/internal/domain/entity"
	"github.com/diillson/kr-realestate-report/internal/shared/types"
)

// Fields of the unsold housing forms, plus the two added while collecting.
const (
	fieldDivision = "구분"
	fieldSigungu  = "시군구"
	fieldDate     = "date"
	fieldUnsold   = "미분양현황"

	fieldSeries     = "series"
	fieldRegionName = "지역구분"

	seriesMonthly   = "monthly"
	seriesCompleted = "completed"
)

var unsoldColumns = []string{fieldRegionName, fieldDate, fieldDivision, fieldSigungu, fieldUnsold, fieldSeries}

// UnsoldResult is what RunUnsold produced.
type UnsoldResult struct {
	Province string
	City     string
	Records  []entity.RawRecord
	Table    entity.ReportTable
}

// RunUnsold merges monthly unsold and unsold-after-completion counts by date for
// the province and, when given, the city.
func (uc *ReportUseCase) RunUnsold(ctx context.Context, args *types.CLIArgs) (*UnsoldResult, error) {
	if err := uc.validateOutputArgs(args); err != nil {
		return nil, err
	}
	parts := entity.RegionParts(args.RegionName)
	if len(parts) == 0 || len(parts) > 3 {
		return nil, types.NewValidationError("region-name", "use '시도[ 시군구[ 구]]', got %q", args.RegionName)
	}
	if args.Start == "" || args.End == "" {
		return nil, types.NewValidationError("date range", "--start and --end are required")
	}
	filter, err := entity.NewQueryFilter(entity.QueryFilterParams{
		Region: entity.Region{Name: args.RegionName, Level: len(parts)},
		Start:  args.Start,
		End:    args.End,
	})
	if err != nil {
		return nil, err
	}
	if err := requireKey(types.EnvMolitStatsKey, uc.settings.Credentials.MolitStatsKey); err != nil {
		return nil, err
	}

	province := entity.ShortProvinceName(parts[0])
	city := ""
	if len(parts) >= 2 {
		city = parts[1]
	}
	uc.console.LogInfo("Collecting unsold housing for province %q city %q", province, city)

	forms := []struct {
		series, form, style string
	}{
		{seriesMonthly, entity.FormMonthlyUnsold, entity.StyleMonthlyUnsold},
		{seriesCompleted, entity.FormCompletedUnsold, entity.StyleCompletedUnsold},
	}

	paginator := uc.paginator(uc.fetchers.MolitStats)
	var records []entity.RawRecord
	for _, f := range forms {
		params := map[string]string{
			entity.ParamFormID:   f.form,
			entity.ParamStyleNum: f.style,
			entity.ParamStartDT:  filter.Start().String(),
			entity.ParamEndDT:    filter.End().String(),
		}
		fetched, err := pagination.Collect(paginator.Records(ctx, params))
		if err != nil {
			return nil, fmt.Errorf("collecting form %s: %w", f.form, err)
		}
		if len(fetched) > 0 {
			if err := requireColumns(fetched[0], fieldDivision, fieldSigungu); err != nil {
				return nil, fmt.Errorf("form %s: %w", f.form, err)
			}
		}
		records = append(records, selectUnsoldRows(fetched, f.series, province, city)...)
	}

	result := &UnsoldResult{
		Province: province,
		City:     city,
		Records:  records,
		Table: aggregate.Aggregate(records,
			aggregate.Grouping{
				Columns: []string{fieldRegionName, fieldDate},
				Key: func(r entity.RawRecord) ([]string, bool) {
					return []string{r.Get(fieldRegionName), r.Get(fieldDate)}, r.Get(fieldDate) != ""
				},
			},
			aggregate.Metric{Name: "월별미분양호수", Field: fieldUnsold, Kind: aggregate.Sum, Where: aggregate.FieldEquals(fieldSeries, seriesMonthly)},
			aggregate.Metric{Name: "공사완료후미분양호수", Field: fieldUnsold, Kind: aggregate.Sum, Where: aggregate.FieldEquals(fieldSeries, seriesCompleted)},
		),
	}
	if len(records) == 0 {
		uc.console.LogWarning("No rows matched %q", args.RegionName)
	}

	sheets := []entity.Sheet{
		result.Table.Sheet("unsold"),
		entity.RawSheet("raw", unsoldColumns, records),
	}
	if err := uc.export(ctx, "Unsold Housing "+args.RegionName, sheets, args, "notsold.xlsx"); err != nil {
		return result, err
	}
	return result, nil
}

// selectUnsoldRows keeps the province total rows (시군구 계/합계) and the city rows,
// tagging each with its series and region label.
func selectUnsoldRows(records []entity.RawRecord, series, province, city string) []entity.RawRecord {
	var selected []entity.RawRecord
	for _, r := range records {
		if r.Get(fieldDivision) != province {
			continue
		}
		sigungu := r.Get(fieldSigungu)
		switch {
		case sigungu == "계" || sigungu == "합계":
			selected = append(selected, r.With(fieldSeries, series).With(fieldRegionName, province))
		case city != "" && sigungu == city:
			selected = append(selected, r.With(fieldSeries, series).With(fieldRegionName, city))
		}
	}
	return selected
}

func requireColumns(sample entity.RawRecord, columns ...string) error {
	for _, c := range columns {
		if _, ok := sample[c]; !ok {
			return fmt.Errorf("required column %q missing from response", c)
		}
	}
	return nil
}

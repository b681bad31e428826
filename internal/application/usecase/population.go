package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/diillson/kr-realestate-report/internal/application/aggregate"
	"github.com/diillson/kr-realestate-report/internal/application/pagination"
	"github.com/diillson/kr-realestate-report/internal/domain/entity"
	"github.com/diillson/kr-realestate-report/internal/shared/types"
)

// Fields of a population record.
const (
	fieldStatsYM    = "statsYm"
	fieldSidoName   = "ctpvNm"
	fieldSggName    = "sggNm"
	fieldDongName   = "dongNm"
	fieldPopulation = "totNmprCnt"
	fieldHouseholds = "hhCnt"
)

var populationColumns = []string{fieldStatsYM, fieldSidoName, fieldSggName, fieldDongName, fieldPopulation, fieldHouseholds}

// PopulationResult is what RunPopulation produced.
type PopulationResult struct {
	Region  entity.Region
	Records []entity.RawRecord
	ByYear  entity.ReportTable
}

// RunPopulation collects monthly population and household counts for a region.
func (uc *ReportUseCase) RunPopulation(ctx context.Context, args *types.CLIArgs) (*PopulationResult, error) {
	if err := uc.validateOutputArgs(args); err != nil {
		return nil, err
	}
	if args.Start == "" || args.End == "" {
		return nil, types.NewValidationError("date range", "--start and --end are required")
	}

	region, err := uc.resolveLawdRegion(args)
	if err != nil {
		return nil, err
	}
	filter, err := entity.NewQueryFilter(entity.QueryFilterParams{Region: region, Start: args.Start, End: args.End})
	if err != nil {
		return nil, err
	}
	if err := requireKey(types.EnvPopulationKey, uc.settings.Credentials.PopulationKey); err != nil {
		return nil, err
	}

	uc.console.LogInfo("Collecting population data for %s (lv=%d)...", region.Name, region.Level)

	params := map[string]string{
		entity.ParamAdmmCode: region.Code,
		entity.ParamFromYM:   filter.Start().String(),
		entity.ParamToYM:     filter.End().String(),
		entity.ParamLevel:    strconv.Itoa(region.Level),
	}
	status := uc.console.Status("Fetching population pages...")
	records, err := pagination.Collect(uc.paginator(uc.fetchers.Population).WithStatus(status).Records(ctx, params))
	status.Stop()
	if err != nil {
		return nil, err
	}
	uc.console.LogInfo("%d record(s) collected", len(records))

	result := &PopulationResult{
		Region:  region,
		Records: records,
		ByYear: aggregate.Aggregate(records, populationGrouping(),
			aggregate.Metric{Name: "평균인구", Field: fieldPopulation, Kind: aggregate.Average},
			aggregate.Metric{Name: "평균세대수", Field: fieldHouseholds, Kind: aggregate.Average},
			aggregate.Metric{Name: "집계월수", Kind: aggregate.Count},
		),
	}

	sheets := []entity.Sheet{
		entity.RawSheet("인구세대(raw)", populationColumns, records),
		result.ByYear.Sheet("by_year"),
	}
	if err := uc.export(ctx, "Population "+region.Name, sheets, args, "population.xlsx"); err != nil {
		return result, err
	}
	return result, nil
}

// populationGrouping keys records by year and the most specific area name.
func populationGrouping() aggregate.Grouping {
	return aggregate.Grouping{
		Columns: []string{"년도", "지역"},
		Key: func(r entity.RawRecord) ([]string, bool) {
			ym := r.Get(fieldStatsYM)
			if len(ym) < 4 {
				return nil, false
			}
			var names []string
			for _, f := range []string{fieldSidoName, fieldSggName, fieldDongName} {
				if v := r.Get(f); v != "" {
					names = append(names, v)
				}
			}
			return []string{ym[:4], strings.Join(names, " ")}, true
		},
	}
}

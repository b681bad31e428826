package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diillson/kr-realestate-report/internal/application/aggregate"
	"github.com/diillson/kr-realestate-report/internal/application/pagination"
	"github.com/diillson/kr-realestate-report/internal/domain/entity"
	"github.com/diillson/kr-realestate-report/internal/shared/types"
)

// Fields of a price index item, plus the region label added while collecting.
const (
	fieldTime        = "TIME"
	fieldIndexValue  = "VALUE"
	fieldIndexRegion = "지역"
)

var priceIndexColumns = []string{fieldIndexRegion, fieldTime, fieldIndexValue}

// Aggregate regions always reported next to the requested one.
var baseIndexRegions = []string{"전국", "수도권", "지방권"}

// PriceIndexResult is what RunPriceIndex produced.
type PriceIndexResult struct {
	Regions []entity.Region
	Records []entity.RawRecord
	ByYear  entity.ReportTable
	Pivot   entity.ReportTable
}

// RunPriceIndex collects the monthly sale price index of the nationwide,
// capital-area and non-capital aggregates plus every level of the requested
// region, and pivots the yearly mean by region.
func (uc *ReportUseCase) RunPriceIndex(ctx context.Context, args *types.CLIArgs) (*PriceIndexResult, error) {
	if err := uc.validateOutputArgs(args); err != nil {
		return nil, err
	}
	if strings.TrimSpace(args.RegionName) == "" {
		return nil, types.NewValidationError("region-name", "is required")
	}
	if args.Start == "" || args.End == "" {
		return nil, types.NewValidationError("date range", "--start and --end are required")
	}
	filter, err := entity.NewQueryFilter(entity.QueryFilterParams{
		Region: entity.Region{Name: args.RegionName},
		Start:  args.Start,
		End:    args.End,
	})
	if err != nil {
		return nil, err
	}

	regions, err := uc.resolveIndexRegions(args.RegionName)
	if err != nil {
		return nil, err
	}
	if err := requireKey(types.EnvREBKey, uc.settings.Credentials.REBKey); err != nil {
		return nil, err
	}

	statblID := args.StatblID
	if statblID == "" {
		statblID = entity.DefaultStatblID
	}

	paginator := uc.paginator(uc.fetchers.PriceIndex)
	var records []entity.RawRecord
	for _, region := range regions {
		uc.console.LogInfo("Collecting '%s'...", region.Name)
		params := map[string]string{
			entity.ParamStatCode:  statblID,
			entity.ParamStartTime: filter.Start().String(),
			entity.ParamEndTime:   filter.End().String(),
			entity.ParamRegion:    region.Code,
		}
		fetched, err := pagination.Collect(paginator.Records(ctx, params))
		if err != nil {
			return nil, fmt.Errorf("collecting price index for %s: %w", region.Name, err)
		}
		for _, r := range fetched {
			records = append(records, r.With(fieldIndexRegion, region.Name))
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("price index: %w", types.ErrNoRecords)
	}

	byYear := aggregate.Aggregate(records,
		aggregate.Grouping{
			Columns: []string{"년도", fieldIndexRegion},
			Key: func(r entity.RawRecord) ([]string, bool) {
				t := r.Get(fieldTime)
				if len(t) < 4 {
					return nil, false
				}
				return []string{t[:4], r.Get(fieldIndexRegion)}, true
			},
		},
		aggregate.Metric{Name: "평균지수", Field: fieldIndexValue, Kind: aggregate.Average},
	)

	result := &PriceIndexResult{
		Regions: regions,
		Records: records,
		ByYear:  byYear,
		Pivot:   aggregate.Pivot(byYear, 0, 1, 0),
	}

	sheets := []entity.Sheet{
		entity.RawSheet("raw", priceIndexColumns, records),
		result.Pivot.Sheet("pivot"),
	}
	if err := uc.export(ctx, "Monthly Price Index "+args.RegionName, sheets, args, "monthly_price_index.xlsx"); err != nil {
		return result, err
	}
	return result, nil
}

// resolveIndexRegions builds the region list (aggregates first, then each level
// of the normalised name) and looks up their codes. Unknown names are reported
// and skipped; none at all is a validation error.
func (uc *ReportUseCase) resolveIndexRegions(regionName string) ([]entity.Region, error) {
	parts := entity.RegionParts(regionName)
	if len(parts) > 0 {
		parts[0] = entity.ShortProvinceName(parts[0])
	}

	names := append([]string{}, baseIndexRegions...)
	for i := range parts {
		if i >= 3 {
			break
		}
		names = append(names, strings.Join(parts[:i+1], " "))
	}

	var regions []entity.Region
	for _, name := range names {
		region, err := uc.regionRepo.PriceIndexCode(name)
		if errors.Is(err, types.ErrRegionNotFound) {
			uc.console.LogError("No code for '%s'", name)
			continue
		}
		if err != nil {
			return nil, err
		}
		regions = append(regions, region)
	}
	if len(regions) == 0 {
		return nil, types.NewValidationError("region-name", "no valid region code for %q", regionName)
	}
	return regions, nil
}

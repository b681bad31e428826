package repository

import (
	"github.com/diillson/kr-realestate-report/internal/domain/entity"
)

// RegionRepository resolves region names to the codes the upstream APIs expect.
type RegionRepository interface {
	// LawdCode resolves "시도 시군구[ 읍면동]" to the 5-digit sigungu code.
	LawdCode(regionName string) (entity.Region, error)
	// PriceIndexCode resolves a price-index classification name ("충남 천안시").
	PriceIndexCode(name string) (entity.Region, error)
}

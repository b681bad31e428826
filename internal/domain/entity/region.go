package entity

import "strings"

// Region is a named administrative area and the code the upstream APIs expect.
type Region struct {
	Name string
	Code string
	// Level is the administrative depth: 1 sido, 2 sigungu, 3 eupmyeondong.
	Level int
}

// RegionParts splits a region name like "충청남도 천안시 동남구" into its parts.
func RegionParts(name string) []string {
	return strings.Fields(name)
}

var provinceAbbreviations = map[string]string{
	"서울특별시": "서울", "부산광역시": "부산", "대구광역시": "대구",
	"인천광역시": "인천", "광주광역시": "광주", "대전광역시": "대전",
	"울산광역시": "울산", "세종특별자치시": "세종",
	"경기도": "경기", "강원도": "강원", "강원특별자치도": "강원",
	"충청북도": "충북", "충청남도": "충남",
	"전라북도": "전북", "전북특별자치도": "전북", "전라남도": "전남",
	"경상북도": "경북", "경상남도": "경남",
	"제주특별자치도": "제주", "제주도": "제주",
}

// ShortProvinceName maps a full province name to the short form used by the
// statistics tables ("경상남도" -> "경남"). Unknown names are returned trimmed.
func ShortProvinceName(name string) string {
	name = strings.TrimSpace(name)
	if short, ok := provinceAbbreviations[name]; ok {
		return short
	}
	return name
}

package region

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/diillson/kr-realestate-report/internal/shared/types"
	"golang.org/x/text/encoding/korean"
)

const lawdTable = `법정동코드,시도명,시군구명,읍면동명,폐지여부
4400000000,충청남도,,,존재
4413000000,충청남도,천안시,,존재
4413100000,충청남도,천안시동남구,,존재
4413110100,충청남도,천안시동남구,대흥동,존재
1111000000,서울특별시,종로구,,존재
`

const priceTable = `"(단위: 2021.6=100)"
"월간 아파트 매매가격지수"
분류명,지역코드,비고
전국,A1000,
수도권,A1100,
지방권,A1200,
충남,A3400,
충남 천안시,A3410,
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLawdCode(t *testing.T) {
	repo := NewRegionRepository(writeFile(t, "code_raw.csv", []byte("\xEF\xBB\xBF"+lawdTable)), "")

	tests := []struct {
		name      string
		wantCode  string
		wantLevel int
	}{
		{"충청남도", "44000", 1},
		{"충청남도 천안시", "44130", 2},
		{"충청남도 천안시 동남구", "44131", 3},
		{"  서울특별시   종로구 ", "11110", 2},
	}
	for _, tt := range tests {
		region, err := repo.LawdCode(tt.name)
		if err != nil {
			t.Errorf("LawdCode(%q): %v", tt.name, err)
			continue
		}
		if region.Code != tt.wantCode || region.Level != tt.wantLevel {
			t.Errorf("LawdCode(%q) = %+v, want code %s level %d", tt.name, region, tt.wantCode, tt.wantLevel)
		}
	}

	if _, err := repo.LawdCode("제주특별자치도 서귀포시"); !errors.Is(err, types.ErrRegionNotFound) {
		t.Errorf("expected ErrRegionNotFound, got %v", err)
	}

	var vErr *types.ValidationError
	if _, err := repo.LawdCode(""); !errors.As(err, &vErr) {
		t.Errorf("expected ValidationError for an empty name, got %v", err)
	}
}

func TestLawdCode_SigunguTable(t *testing.T) {
	table := "시군구명,시군구코드\n천안시 동남구,44131\n종로구,11110\n"
	repo := NewRegionRepository(writeFile(t, "code_raw.csv", []byte(table)), "")

	region, err := repo.LawdCode("서울특별시 종로구")
	if err != nil {
		t.Fatalf("LawdCode: %v", err)
	}
	if region.Code != "11110" {
		t.Errorf("code = %s, want 11110", region.Code)
	}
}

func TestLawdCode_MissingFile(t *testing.T) {
	repo := NewRegionRepository(filepath.Join(t.TempDir(), "missing.csv"), "")

	_, err := repo.LawdCode("충청남도 천안시")
	var ioErr *types.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError, got %v", err)
	}
}

func TestPriceIndexCode(t *testing.T) {
	eucKR, err := korean.EUCKR.NewEncoder().String(priceTable)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	for name, data := range map[string][]byte{
		"utf-8":  []byte(priceTable),
		"euc-kr": []byte(eucKR),
	} {
		t.Run(name, func(t *testing.T) {
			repo := NewRegionRepository("", writeFile(t, "code_forprice.csv", data))

			for code, want := range map[string]string{"전국": "A1000", "충남": "A3400", "충남 천안시": "A3410"} {
				region, err := repo.PriceIndexCode(code)
				if err != nil {
					t.Errorf("PriceIndexCode(%q): %v", code, err)
					continue
				}
				if region.Code != want {
					t.Errorf("PriceIndexCode(%q) = %s, want %s", code, region.Code, want)
				}
			}

			if _, err := repo.PriceIndexCode("분류명"); !errors.Is(err, types.ErrRegionNotFound) {
				t.Errorf("header row must not be a region, got %v", err)
			}
			if _, err := repo.PriceIndexCode("충남 아산시"); !errors.Is(err, types.ErrRegionNotFound) {
				t.Errorf("expected ErrRegionNotFound, got %v", err)
			}
		})
	}
}

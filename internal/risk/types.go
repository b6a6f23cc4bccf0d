package risk

import (
	"errors"
	"fmt"

	"treasury-desk/internal/product"
)

var (
	// ErrUnknownSector 表示产品不属于任何分组。
	ErrUnknownSector = errors.New("unknown sector")
	// ErrNoPV01 表示产品没有配置单位 PV01。
	ErrNoPV01 = errors.New("no pv01 for product")
)

// PV01 为某对象的基点价值敞口，T 可以是单个产品或一个分组。
type PV01[T any] struct {
	Product  T
	PV01     float64
	Quantity int64
}

// Value 返回单位 PV01 乘以数量。
func (p PV01[T]) Value() float64 {
	return p.PV01 * float64(p.Quantity)
}

// BucketedSector 为一组产品的命名分组，风险可以在组内汇总。
type BucketedSector struct {
	Name     string
	Products []product.Bond
}

// 分组名称。
const (
	SectorFrontEnd = "FrontEnd"
	SectorBelly    = "Belly"
	SectorLongEnd  = "LongEnd"
)

// pv01PerUnit 为各期限的单位 PV01，构造服务时固定。
var pv01PerUnit = map[string]float64{
	"2Y":  0.019851,
	"3Y":  0.029309,
	"5Y":  0.048643,
	"7Y":  0.065843,
	"10Y": 0.087939,
	"30Y": 0.184698,
}

var sectorTenors = []struct {
	name   string
	tenors []string
}{
	{SectorFrontEnd, []string{"2Y", "3Y"}},
	{SectorBelly, []string{"5Y", "7Y", "10Y"}},
	{SectorLongEnd, []string{"30Y"}},
}

// PV01PerUnit 返回期限的单位 PV01。
func PV01PerUnit(productID string) (float64, error) {
	v, ok := pv01PerUnit[productID]
	if !ok {
		return 0, fmt.Errorf("risk: %s: %w", productID, ErrNoPV01)
	}
	return v, nil
}

// Sectors 返回六个期限的固定分组：前端、腹部、长端。
func Sectors() []BucketedSector {
	out := make([]BucketedSector, 0, len(sectorTenors))
	for _, st := range sectorTenors {
		out = append(out, newSector(st.name, st.tenors))
	}
	return out
}

// SectorFor 返回产品所在的分组。
func SectorFor(productID string) (BucketedSector, error) {
	for _, st := range sectorTenors {
		for _, tenor := range st.tenors {
			if tenor == productID {
				return newSector(st.name, st.tenors), nil
			}
		}
	}
	return BucketedSector{}, fmt.Errorf("risk: %s: %w", productID, ErrUnknownSector)
}

// SectorByName 按名称查找分组。
func SectorByName(name string) (BucketedSector, error) {
	for _, st := range sectorTenors {
		if st.name == name {
			return newSector(st.name, st.tenors), nil
		}
	}
	return BucketedSector{}, fmt.Errorf("risk: 分组 %q: %w", name, ErrUnknownSector)
}

func newSector(name string, tenors []string) BucketedSector {
	products := make([]product.Bond, 0, len(tenors))
	for _, tenor := range tenors {
		products = append(products, product.MustTreasury(tenor))
	}
	return BucketedSector{Name: name, Products: products}
}

package product

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownTenor 表示期限不在六个国债期限之内。
var ErrUnknownTenor = errors.New("unknown tenor")

// IDType 表示产品标识的编码体系。
type IDType string

const (
	IDTypeCUSIP IDType = "CUSIP"
	IDTypeISIN  IDType = "ISIN"
)

const treasuryTicker = "T"

// Tenors 为系统支持的六个期限，按期限由短到长排列。
var Tenors = []string{"2Y", "3Y", "5Y", "7Y", "10Y", "30Y"}

// IssueDate 是全部国债的统一发行日。
var IssueDate = time.Date(2018, time.November, 25, 0, 0, 0, 0, time.UTC)

// Bond 为不可变的债券参考数据，以 ProductID（期限标签）作为身份。
type Bond struct {
	ProductID string
	IDType    IDType
	Ticker    string
	Coupon    float64
	Maturity  time.Time
}

// ID 返回产品标识。
func (b Bond) ID() string {
	return b.ProductID
}

// Treasury 根据期限标签构造国债参考数据。
func Treasury(tenor string) (Bond, error) {
	tenor = strings.ToUpper(strings.TrimSpace(tenor))
	years, err := tenorYears(tenor)
	if err != nil {
		return Bond{}, err
	}
	return Bond{
		ProductID: tenor,
		IDType:    IDTypeCUSIP,
		Ticker:    treasuryTicker,
		Coupon:    0,
		Maturity:  IssueDate.AddDate(years, 0, 0),
	}, nil
}

// MustTreasury 用于已知合法期限的场景，非法期限直接 panic。
func MustTreasury(tenor string) Bond {
	b, err := Treasury(tenor)
	if err != nil {
		panic(err)
	}
	return b
}

// Known 判断期限是否属于六个国债期限。
func Known(tenor string) bool {
	for _, t := range Tenors {
		if t == tenor {
			return true
		}
	}
	return false
}

func tenorYears(tenor string) (int, error) {
	if !Known(tenor) {
		return 0, fmt.Errorf("product: %q: %w", tenor, ErrUnknownTenor)
	}
	years, err := strconv.Atoi(strings.TrimSuffix(tenor, "Y"))
	if err != nil {
		return 0, fmt.Errorf("product: 解析期限 %q 失败: %w", tenor, err)
	}
	return years, nil
}

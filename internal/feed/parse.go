package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"treasury-desk/internal/booking"
	"treasury-desk/internal/inquiry"
	"treasury-desk/internal/marketdata"
	"treasury-desk/internal/pricefrac"
	"treasury-desk/internal/pricing"
	"treasury-desk/internal/product"
)

// 各行情源名称。
const (
	FeedPrices    = "prices"
	FeedTrades    = "trades"
	FeedMarket    = "market"
	FeedInquiries = "inquiries"
)

// ParseError 描述某行情源第 Line 行（从 1 开始）无法解析，整个源作废。
type ParseError struct {
	Feed string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("feed: %s 第 %d 行: %v", e.Feed, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// readRecords 逐行读取定长逗号分隔记录，fn 收到记录所在行号，其错误会附上行号。
func readRecords(feed string, r io.Reader, fields int, fn func(line int, rec []string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return &ParseError{Feed: feed, Line: csvErr.StartLine, Err: csvErr.Err}
			}
			return fmt.Errorf("feed: 读取 %s 失败: %w", feed, err)
		}
		line, _ := cr.FieldPos(0)
		if err := fn(line, rec); err != nil {
			return &ParseError{Feed: feed, Line: line, Err: err}
		}
	}
}

func parseBond(field string) (product.Bond, error) {
	return product.Treasury(field)
}

func parseQuantity(field string) (int64, error) {
	q, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("数量 %q 非法: %w", field, err)
	}
	if q < 0 {
		return 0, fmt.Errorf("数量 %d 不能为负", q)
	}
	return q, nil
}

// ParsePrices 解析价格源：期限, 中间价, 价差。
func ParsePrices(r io.Reader) ([]pricing.Price, error) {
	var out []pricing.Price
	err := readRecords(FeedPrices, r, 3, func(_ int, rec []string) error {
		bond, err := parseBond(rec[0])
		if err != nil {
			return err
		}
		mid, err := pricefrac.Decode(rec[1])
		if err != nil {
			return err
		}
		spread, err := pricefrac.Decode(rec[2])
		if err != nil {
			return err
		}
		out = append(out, pricing.Price{Product: bond, Mid: mid, BidOfferSpread: spread})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseTrades 解析成交源：期限, 成交编号, 价格, 数量, 交易簿, 方向。
func ParseTrades(r io.Reader) ([]booking.Trade, error) {
	var out []booking.Trade
	err := readRecords(FeedTrades, r, 6, func(_ int, rec []string) error {
		bond, err := parseBond(rec[0])
		if err != nil {
			return err
		}
		id := strings.TrimSpace(rec[1])
		if id == "" {
			return errors.New("成交编号为空")
		}
		price, err := pricefrac.Decode(rec[2])
		if err != nil {
			return err
		}
		qty, err := parseQuantity(rec[3])
		if err != nil {
			return err
		}
		book, err := booking.ParseBook(rec[4])
		if err != nil {
			return err
		}
		side, err := booking.ParseSide(rec[5])
		if err != nil {
			return err
		}
		out = append(out, booking.Trade{
			Product:  bond,
			TradeID:  id,
			Price:    price,
			Book:     book,
			Quantity: qty,
			Side:     side,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseMarket 解析盘口源：期限, 中间价, 价差, 数量。
// 每 depth 条连续记录组成一个订单簿，组内期限必须一致，末尾不足一组视为错误。
func ParseMarket(r io.Reader, depth int) ([]marketdata.OrderBook, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("feed: 盘口深度 %d 非法", depth)
	}

	var (
		out     []marketdata.OrderBook
		current marketdata.OrderBook
		n       int
		line    int
	)
	err := readRecords(FeedMarket, r, 4, func(l int, rec []string) error {
		line = l
		bond, err := parseBond(rec[0])
		if err != nil {
			return err
		}
		mid, err := pricefrac.Decode(rec[1])
		if err != nil {
			return err
		}
		spread, err := pricefrac.Decode(rec[2])
		if err != nil {
			return err
		}
		qty, err := parseQuantity(rec[3])
		if err != nil {
			return err
		}

		if n == 0 {
			current = marketdata.OrderBook{Product: bond}
		} else if current.Product.ID() != bond.ID() {
			return fmt.Errorf("订单簿 %s 中混入期限 %s", current.Product.ID(), bond.ID())
		}
		current.BidStack = append(current.BidStack, marketdata.Order{Price: mid - spread/2, Quantity: qty, Side: marketdata.SideBid})
		current.OfferStack = append(current.OfferStack, marketdata.Order{Price: mid + spread/2, Quantity: qty, Side: marketdata.SideOffer})
		n++

		if n == depth {
			out = append(out, current)
			n = 0
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if n != 0 {
		return nil, &ParseError{
			Feed: FeedMarket,
			Line: line,
			Err:  fmt.Errorf("末尾订单簿只有 %d 条记录，需要 %d 条", n, depth),
		}
	}
	return out, nil
}

// ParseInquiries 解析询价源：期限, 方向, 数量, 中间价, 价差, 状态。
// 买方询价价格为中间价减价差，卖方为中间价加价差；编号按读取顺序从 1 开始。
func ParseInquiries(r io.Reader) ([]inquiry.Inquiry, error) {
	var out []inquiry.Inquiry
	err := readRecords(FeedInquiries, r, 6, func(_ int, rec []string) error {
		bond, err := parseBond(rec[0])
		if err != nil {
			return err
		}
		side, err := booking.ParseSide(rec[1])
		if err != nil {
			return err
		}
		qty, err := parseQuantity(rec[2])
		if err != nil {
			return err
		}
		mid, err := pricefrac.Decode(rec[3])
		if err != nil {
			return err
		}
		spread, err := pricefrac.Decode(rec[4])
		if err != nil {
			return err
		}
		state, err := inquiry.ParseState(rec[5])
		if err != nil {
			return err
		}

		price := mid + spread
		if side == booking.SideBuy {
			price = mid - spread
		}
		out = append(out, inquiry.Inquiry{
			InquiryID: strconv.Itoa(len(out) + 1),
			Product:   bond,
			Side:      side,
			Quantity:  qty,
			Price:     price,
			State:     state,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

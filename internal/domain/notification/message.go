package notification

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lineshop/backend/internal/domain/trade"
)

const (
	headerGold   = "#FFD700"
	colorInk     = "#111111"
	colorMuted   = "#666666"
	colorLabel   = "#555555"
	colorSuccess = "#00B900"
	colorWarning = "#FFA500"
	colorDanger  = "#FF0000"
)

var currencySymbols = map[string]string{
	"TWD": "NT$",
	"NTD": "NT$",
	"JPY": "¥",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

var zeroDecimalCurrencies = map[string]bool{
	"TWD": true,
	"NTD": true,
	"JPY": true,
}

// FormatTotal renders an order total as plain text suitable for a flex
// message. Any markup or entity escapes that leaked in from upstream
// price formatting are stripped.
func FormatTotal(total decimal.Decimal, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code + " "
	}
	places := int32(2)
	if zeroDecimalCurrencies[code] {
		places = 0
	}
	return StripMarkup(symbol + groupThousands(total.StringFixed(places)))
}

// StripMarkup decodes HTML entities and removes any tags, returning
// plain text only.
func StripMarkup(s string) string {
	decoded := html.UnescapeString(s)
	var b strings.Builder
	b.Grow(len(decoded))
	inTag := false
	for _, r := range decoded {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func groupThousands(amount string) string {
	intPart := amount
	fracPart := ""
	if i := strings.IndexByte(amount, '.'); i >= 0 {
		intPart, fracPart = amount[:i], amount[i:]
	}
	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + fracPart
	}
	var parts []string
	for len(intPart) > 3 {
		parts = append([]string{intPart[len(intPart)-3:]}, parts...)
		intPart = intPart[:len(intPart)-3]
	}
	parts = append([]string{intPart}, parts...)
	return sign + strings.Join(parts, ",") + fracPart
}

// OrderCreatedMessage builds the order confirmation bubble sent right
// after checkout.
func OrderCreatedMessage(order *trade.OrderSnapshot) *Bubble {
	payment := order.PaymentMethod
	if payment == "" {
		payment = "未指定"
	}
	total := FormatTotal(order.Total, order.Currency)

	bubble := NewBubble()
	bubble.Header = createdHeader()
	bubble.Body = createdBody(order.Number, payment, total, order.Items)
	if order.DetailURL != "" {
		bubble.Footer = detailFooter("查看詳細訂單", order.DetailURL)
	}
	return bubble
}

func createdHeader() *Box {
	header := VBox(&Text{
		Type:   "text",
		Text:   "下單成功!",
		Weight: "bold",
		Color:  colorInk,
		Size:   "xl",
		Align:  "start",
	})
	header.BackgroundColor = headerGold
	header.PaddingAll = "lg"
	return header
}

func createdBody(number, payment, total string, items []trade.OrderItem) *Box {
	itemList := VBox(itemRows(items)...)
	itemList.Margin = "md"
	itemList.Spacing = "xs"

	return VBox(
		&Text{Type: "text", Text: "訂單編號 #" + number, Size: "md", Color: colorInk, Weight: "bold", Margin: "md"},
		&Text{Type: "text", Text: "付款方式: " + payment, Size: "sm", Color: colorMuted, Margin: "sm"},
		NewSeparator("lg"),
		paymentInstructions(total),
		NewSeparator("lg"),
		&Text{Type: "text", Text: "下單品項", Size: "sm", Color: colorInk, Weight: "bold", Margin: "lg"},
		itemList,
	)
}

func paymentInstructions(total string) *Box {
	box := VBox(
		&Text{Type: "text", Text: "請告知繳費超商", Size: "sm", Color: colorInk, Weight: "bold"},
		&Text{Type: "text", Text: "【可選擇】全家 | OK | 萊爾富", Size: "sm", Color: colorMuted, Margin: "xs", Wrap: true},
		&Text{Type: "text", Text: "【繳費金額】" + total, Size: "sm", Color: colorInk, Weight: "bold", Margin: "sm"},
		starredHint("前往超商後告知小編會指導您付款"),
	)
	box.Margin = "lg"
	box.Spacing = "xs"
	return box
}

func starredHint(hint string) *Box {
	box := HBox(
		&Text{Type: "text", Text: "☆", Size: "sm", Color: headerGold, Flex: FlexInt(0)},
		&Text{Type: "text", Text: hint, Size: "sm", Color: colorMuted, Flex: FlexInt(1), Wrap: true},
	)
	box.Margin = "sm"
	return box
}

func itemRows(items []trade.OrderItem) []Component {
	rows := make([]Component, 0, len(items))
	for _, item := range items {
		rows = append(rows, HBox(&Text{
			Type:  "text",
			Text:  fmt.Sprintf("%s x%d", item.Name, item.Quantity),
			Size:  "sm",
			Color: colorInk,
			Flex:  FlexInt(0),
			Wrap:  true,
		}))
	}
	return rows
}

type statusStyle struct {
	Color string
	Title string
}

var statusStyles = map[trade.OrderStatus]statusStyle{
	trade.OrderStatusCompleted:  {Color: colorSuccess, Title: "訂單已完成"},
	trade.OrderStatusProcessing: {Color: colorWarning, Title: "訂單處理中"},
	trade.OrderStatusCancelled:  {Color: colorDanger, Title: "訂單已取消"},
}

// StatusChangedMessage builds the bubble announcing an order status
// transition. The body repeats the order summary so the card stands on
// its own in the chat history.
func StatusChangedMessage(order *trade.OrderSnapshot, newStatus trade.OrderStatus) *Bubble {
	style, ok := statusStyles[newStatus]
	if !ok {
		style = statusStyle{Color: colorSuccess, Title: "訂單狀態更新"}
	}

	payment := order.PaymentMethod
	if payment == "" {
		payment = "未指定"
	}

	detail := VBox(
		labelRow("訂單編號", "#"+order.Number, colorInk),
		labelRow("新狀態", trade.StatusDisplayName(newStatus), style.Color),
		labelRow("付款方式", payment, colorInk),
	)
	detail.Margin = "lg"
	detail.Spacing = "sm"

	itemList := VBox(itemRows(order.Items)...)
	itemList.Margin = "md"
	itemList.Spacing = "xs"

	bubble := NewBubble()
	bubble.Header = VBox(&Text{
		Type:   "text",
		Text:   style.Title,
		Weight: "bold",
		Color:  style.Color,
		Size:   "xl",
	})
	bubble.Body = VBox(
		&Text{Type: "text", Text: "您的訂單狀態已更新", Size: "md", Margin: "md", Wrap: true},
		NewSeparator("lg"),
		detail,
		NewSeparator("lg"),
		&Text{Type: "text", Text: "下單品項", Size: "sm", Color: colorInk, Weight: "bold", Margin: "lg"},
		itemList,
		labelRow("金額", FormatTotal(order.Total, order.Currency), colorInk),
	)
	if order.DetailURL != "" {
		bubble.Footer = detailFooter("查看訂單詳情", order.DetailURL)
	}
	return bubble
}

func labelRow(label, value, valueColor string) *Box {
	return HBox(
		&Text{Type: "text", Text: label, Size: "sm", Color: colorLabel, Flex: FlexInt(0)},
		&Text{Type: "text", Text: value, Size: "sm", Color: valueColor, Align: "end", Weight: "bold"},
	)
}

func detailFooter(label, url string) *Box {
	footer := VBox(&Button{
		Type:   "button",
		Style:  "primary",
		Height: "sm",
		Action: &URIAction{Type: "uri", Label: label, URI: url},
	})
	footer.Spacing = "sm"
	footer.Flex = FlexInt(0)
	return footer
}

// TestMessage builds a confirmation bubble from canned order data so
// operators can verify channel configuration end to end.
func TestMessage() *Bubble {
	order := &trade.OrderSnapshot{
		Number:        "10099",
		PaymentMethod: "超商付款",
		Items: []trade.OrderItem{
			{Name: "經典白T恤", Quantity: 2},
			{Name: "帆布托特包", Quantity: 1},
		},
		Total:    decimal.NewFromInt(1280),
		Currency: "TWD",
	}
	return OrderCreatedMessage(order)
}

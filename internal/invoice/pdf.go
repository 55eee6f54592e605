package invoice

import (
	"bytes"
	"fmt"

	"atelier/internal/domain/model"

	"github.com/jung-kurt/gofpdf"
)

// 注文1件の請求書PDFを組み立てて返す。
func Render(order model.Order, items []model.OrderItem) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice %s", order.ShortCode), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "INVOICE")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Order: %s", order.ShortCode))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Customer: %s <%s>", order.CustomerName, order.CustomerEmail))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", order.CreatedAt.Format("2006-01-02")))
	pdf.Ln(6)
	if order.ShipLine1 != "" || order.ShipCity != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Ship to: %s, %s %s %s",
			order.ShipLine1, order.ShipCity, order.ShipPostalCode, order.ShipCountry))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	//明細テーブル
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 8, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range items {
		pdf.CellFormat(90, 8, it.ProductNameSnapshot, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", it.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%d", it.UnitPriceSnapshot), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%d", it.UnitPriceSnapshot*it.Quantity), "1", 1, "R", false, 0, "")
	}

	if order.DiscountAmount > 0 {
		pdf.CellFormat(150, 8, "Discount", "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("-%d", order.DiscountAmount), "1", 1, "R", false, 0, "")
	}
	if order.ShippingFee > 0 {
		pdf.CellFormat(150, 8, "Shipping", "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%d", order.ShippingFee), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(150, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("%d", order.TotalPrice), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package contract

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"strings"
)

// BodyFontPlaceholder is swapped for the resolved family after rendering.
const BodyFontPlaceholder = "__BODY_FONT__"

var contractTemplate = template.Must(template.New("contract").Funcs(template.FuncMap{
	"money":  FormatMoney,
	"amount": formatAmount,
	"date":   formatDate,
}).Parse(contractHTML))

var readFontFile = os.ReadFile

type templateData struct {
	Data
	FontFaces template.CSS
}

// fontFaces embeds each resolved font file as a data URI so the document
// carries its fonts wherever it is loaded. Unreadable files are skipped.
func fontFaces(fonts FontSet) template.CSS {
	var css strings.Builder

	faces := []struct {
		font   ResolvedFont
		weight string
	}{
		{fonts.Regular, "normal"},
		{fonts.Bold, "bold"},
	}
	for _, face := range faces {
		if !face.font.Found() {
			continue
		}
		raw, err := readFontFile(face.font.Path)
		if err != nil {
			continue
		}
		fmt.Fprintf(&css,
			"@font-face { font-family: \"%s\"; src: url(data:font/ttf;base64,%s) format(\"truetype\"); font-weight: %s; }\n",
			BodyFontPlaceholder,
			base64.StdEncoding.EncodeToString(raw),
			face.weight,
		)
	}
	return template.CSS(css.String())
}

// RenderHTML produces the contract document for HTML based engines.
func RenderHTML(data Data, fonts FontSet) (string, error) {
	var buf bytes.Buffer
	if err := contractTemplate.Execute(&buf, templateData{Data: data, FontFaces: fontFaces(fonts)}); err != nil {
		return "", fmt.Errorf("failed to render contract template: %w", err)
	}
	return strings.ReplaceAll(buf.String(), BodyFontPlaceholder, fonts.BodyFamily), nil
}

const contractHTML = `<!DOCTYPE html>
<html lang="th">
<head>
<meta charset="utf-8">
<title>สัญญาก่อสร้าง {{.DesignCode}}</title>
<style>
{{.FontFaces}}
@page { size: A4; margin: 18mm 16mm; }
body { font-family: "__BODY_FONT__", sans-serif; font-size: 14pt; line-height: 1.5; color: #222; }
h1 { font-size: 20pt; text-align: center; margin-bottom: 4mm; }
h2 { font-size: 15pt; border-bottom: 1px solid #999; margin-top: 6mm; }
table { width: 100%; border-collapse: collapse; }
th, td { border: 1px solid #bbb; padding: 2mm 3mm; text-align: left; }
td.amount { text-align: right; }
.company { text-align: center; font-size: 12pt; }
.signatures td { border: none; padding-top: 18mm; text-align: center; }
</style>
</head>
<body>
<div class="company">
<strong>{{.Company.Name}}</strong><br>
{{.Company.Address}}<br>
โทร {{.Company.Phone}} อีเมล {{.Company.Email}}
</div>

<h1>สัญญาว่าจ้างก่อสร้างบ้าน</h1>
<p>เลขที่ใบเสนอราคา {{.QuoteID}} &middot; รหัสแบบ {{.DesignCode}} &middot; วันที่ออกเอกสาร {{date .IssuedDate}}</p>

<h2>ข้อมูลผู้ว่าจ้าง</h2>
<table>
<tr><th>ชื่อ</th><td>{{.ClientName}}</td></tr>
<tr><th>อีเมล</th><td>{{.ClientEmail}}</td></tr>
<tr><th>ที่อยู่</th><td>{{if .ClientAddress}}{{.ClientAddress}}{{else}}-{{end}}</td></tr>
<tr><th>โทรศัพท์</th><td>{{if .ClientPhone}}{{.ClientPhone}}{{else}}-{{end}}</td></tr>
</table>

<h2>รายละเอียดแบบบ้าน</h2>
<table>
<tr><th>ชื่อแบบ</th><td>{{.DesignTitle}}{{if .IsCatalogDesign}} (แบบบ้านสำเร็จรูป){{end}}</td></tr>
<tr><th>รายละเอียด</th><td>{{if .DesignDescription}}{{.DesignDescription}}{{else}}-{{end}}</td></tr>
<tr><th>ผู้ออกแบบ</th><td>{{.Designer}}</td></tr>
<tr><th>ราคารวม</th><td>{{if .HasPrice}}{{money .TotalPrice}} บาท{{else}}รอการประเมินราคา{{end}}</td></tr>
</table>

<h2>งวดการชำระเงิน</h2>
<table>
<tr><th>งวด</th><th>สัดส่วน</th><th>รายละเอียด</th><th>จำนวนเงิน (บาท)</th></tr>
{{- range .Installments}}
<tr><td>{{.Label}}</td><td>{{.Percentage}}</td><td>{{.Description}}</td><td class="amount">{{amount .Amount}}</td></tr>
{{- end}}
</table>

<table class="signatures">
<tr>
<td>ลงชื่อ ........................................<br>ผู้ว่าจ้าง<br>({{.ClientName}})</td>
<td>ลงชื่อ ........................................<br>ผู้รับจ้าง<br>({{.Company.Name}})</td>
</tr>
</table>
</body>
</html>
`

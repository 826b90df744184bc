// Package report assembles the printable supplier report and orchestrates
// its export through an external rendering collaborator.
package report

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"fournipay/internal/analytics"
	"fournipay/internal/core"
)

// TopN is the ranking size of the printable report. It is independent of
// the 10-entry on-screen ranking.
const TopN = 5

// Meta identifies a generated report.
type Meta struct {
	Organization string
	GeneratedAt  time.Time
}

// Data is everything the report template needs, fully materialized before
// rendering begins.
type Data struct {
	Meta          Meta
	SupplierCount int
	Summary       core.ScalarSummary
	Top           []analytics.RankedGroup
}

// Compose builds the report data from the supplier collection, the
// filtered payment view and its per-supplier groups.
func Compose(meta Meta, suppliers []core.Supplier, view []core.Payment, groups []core.GroupSummary) Data {
	return Data{
		Meta:          meta,
		SupplierCount: len(suppliers),
		Summary:       analytics.Summarize(view),
		Top:           analytics.Rank(groups, TopN),
	}
}

var documentTmpl = template.Must(template.New("supplier_report").Funcs(template.FuncMap{
	"mad":  FormatMAD,
	"date": FormatDate,
}).Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<style>
  body { width: 190mm; margin: 0 auto; font-family: Arial, sans-serif; background: #fff; color: #1f2937; }
  .header { text-align: center; border-bottom: 2px solid #ea580c; padding-bottom: 16px; margin-bottom: 24px; }
  .header h1 { font-size: 24px; color: #ea580c; margin: 0; }
  .header h2 { font-size: 17px; margin: 8px 0 0; }
  .header p { font-size: 12px; color: #6b7280; margin: 4px 0 0; }
  .stats { margin-bottom: 24px; }
  .stats h3 { font-size: 15px; margin-bottom: 10px; }
  .stats table { width: 100%; border-collapse: collapse; font-size: 12px; }
  .stats td { padding: 8px; border: 1px solid #e5e7eb; }
  .ranking h3 { font-size: 15px; margin-bottom: 10px; }
  .ranking table { width: 100%; border-collapse: collapse; font-size: 11px; }
  .ranking th { padding: 8px; border: 1px solid #e5e7eb; background: #f3f4f6; text-align: left; }
  .ranking td { padding: 7px; border: 1px solid #e5e7eb; }
  .num { text-align: center; }
</style>
</head>
<body>
  <div class="header">
    <h1>RAPPORT FOURNISSEURS</h1>
    <h2>{{.Meta.Organization}}</h2>
    <p>Généré le {{date .Meta.GeneratedAt}}</p>
  </div>
  <div class="stats">
    <h3>Statistiques Globales</h3>
    <table>
      <tr>
        <td><strong>Total Fournisseurs:</strong> {{.SupplierCount}}</td>
        <td><strong>Total Payé:</strong> {{mad .Summary.Total}}</td>
      </tr>
      <tr>
        <td><strong>Nombre de Paiements:</strong> {{.Summary.Count}}</td>
        <td><strong>Paiement Moyen:</strong> {{mad .Summary.Average}}</td>
      </tr>
    </table>
  </div>
  <div class="ranking">
    <h3>Top {{len .Top}} Fournisseurs</h3>
    <table>
      <thead>
        <tr>
          <th>#</th>
          <th>Fournisseur</th>
          <th class="num">Montant Payé</th>
          <th class="num">Nb Paiements</th>
          <th class="num">Dernier Paiement</th>
        </tr>
      </thead>
      <tbody>
        {{range .Top}}
        <tr>
          <td class="num">{{.Rank}}</td>
          <td>{{.Name}}</td>
          <td class="num">{{mad .Total}}</td>
          <td class="num">{{.Count}}</td>
          <td class="num">{{if .LastPayment.IsZero}}-{{else}}{{date .LastPayment.Time}}{{end}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
  </div>
</body>
</html>
`))

// RenderHTML produces the complete report markup. The returned string is
// the fully materialized content handed to the staging surface; nothing is
// loaded lazily afterwards.
func RenderHTML(d Data) (string, error) {
	var b strings.Builder
	if err := documentTmpl.Execute(&b, d); err != nil {
		return "", fmt.Errorf("execute report template: %w", err)
	}
	return b.String(), nil
}

// FormatMAD renders cents with thousands separators and the fixed currency
// suffix, e.g. "1 234 567,89 MAD".
func FormatMAD(m core.Money) string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := cents / 100
	rem := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}

	out := fmt.Sprintf("%s,%02d MAD", b.String(), rem)
	if neg {
		return "-" + out
	}
	return out
}

// FormatDate renders a date as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

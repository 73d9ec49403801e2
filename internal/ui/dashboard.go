// Package ui renders the monitor's terminal dashboard.
package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"arbscanner/internal/scanner"
)

const maxOpportunityRows = 50

// Dashboard is a two-panel TUI: live per-pair scan state on top, the most
// recent accepted opportunities below.
type Dashboard struct {
	app       *tview.Application
	pairTable *tview.Table
	oppTable  *tview.Table
	status    *tview.TextView

	mu   sync.Mutex
	opps []*scanner.Opportunity
}

func NewDashboard() *Dashboard {
	d := &Dashboard{
		app:       tview.NewApplication(),
		pairTable: tview.NewTable().SetBorders(false),
		oppTable:  tview.NewTable().SetBorders(false),
		status:    tview.NewTextView().SetDynamicColors(true),
	}

	d.pairTable.SetBorder(true).SetTitle(" Pairs ")
	d.oppTable.SetBorder(true).SetTitle(" Opportunities ")
	d.status.SetBorder(true).SetTitle(" Scanner ")

	d.setPairHeader()
	d.setOppHeader()

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.status, 3, 0, false).
		AddItem(d.pairTable, 0, 1, false).
		AddItem(d.oppTable, 0, 2, false)

	d.app.SetRoot(layout, true)
	d.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'q' || event.Key() == tcell.KeyCtrlC {
			d.app.Stop()
			return nil
		}
		return event
	})

	return d
}

// Run blocks until the user quits.
func (d *Dashboard) Run() error {
	return d.app.Run()
}

func (d *Dashboard) Stop() {
	d.app.Stop()
}

// Update redraws the dashboard with one tick's results. Safe to call from
// the scan loop goroutine.
func (d *Dashboard) Update(tick int, results []scanner.PairResult) {
	d.mu.Lock()
	for _, res := range results {
		if res.Opportunity != nil {
			d.opps = append([]*scanner.Opportunity{res.Opportunity}, d.opps...)
		}
	}
	if len(d.opps) > maxOpportunityRows {
		d.opps = d.opps[:maxOpportunityRows]
	}
	opps := make([]*scanner.Opportunity, len(d.opps))
	copy(opps, d.opps)
	d.mu.Unlock()

	d.app.QueueUpdateDraw(func() {
		d.drawStatus(tick, results)
		d.drawPairs(results)
		d.drawOpps(opps)
	})
}

func (d *Dashboard) drawStatus(tick int, results []scanner.PairResult) {
	found := 0
	var ethPrice, gasGwei float64
	staleMark := ""
	for _, res := range results {
		if res.Opportunity != nil {
			found++
		}
		ethPrice = res.EthPrice.Value
		gasGwei = res.GasGwei.Value
		if res.EthPrice.Stale || res.GasGwei.Stale {
			staleMark = " [yellow](stale)[-]"
		}
	}
	d.status.SetText(fmt.Sprintf(
		" tick %d | %s | ETH $%.2f | gas %.1f gwei%s | opportunities this tick: %d",
		tick, time.Now().Format("15:04:05"), ethPrice, gasGwei, staleMark, found))
}

func (d *Dashboard) setPairHeader() {
	for i, h := range []string{"Pair", "Spread %", "Buy venue", "Sell venue", "Result"} {
		d.pairTable.SetCell(0, i, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).SetSelectable(false))
	}
}

func (d *Dashboard) drawPairs(results []scanner.PairResult) {
	for i, res := range results {
		row := i + 1
		outcome := res.Reason
		color := tcell.ColorWhite
		if res.Opportunity != nil {
			outcome = fmt.Sprintf("net $%.2f", res.Opportunity.NetProfitUSD)
			color = tcell.ColorGreen
		}
		d.pairTable.SetCell(row, 0, tview.NewTableCell(res.Pair))
		d.pairTable.SetCell(row, 1, tview.NewTableCell(fmt.Sprintf("%.4f", res.SpreadPct)))
		d.pairTable.SetCell(row, 2, tview.NewTableCell(res.BuyVenue))
		d.pairTable.SetCell(row, 3, tview.NewTableCell(res.SellVenue))
		d.pairTable.SetCell(row, 4, tview.NewTableCell(outcome).SetTextColor(color))
	}
}

func (d *Dashboard) setOppHeader() {
	for i, h := range []string{"Time", "Pair", "Buy", "Sell", "Spread %", "Size", "Net $"} {
		d.oppTable.SetCell(0, i, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).SetSelectable(false))
	}
}

func (d *Dashboard) drawOpps(opps []*scanner.Opportunity) {
	for i, opp := range opps {
		row := i + 1
		d.oppTable.SetCell(row, 0, tview.NewTableCell(opp.Timestamp.Format("15:04:05")))
		d.oppTable.SetCell(row, 1, tview.NewTableCell(opp.Pair))
		d.oppTable.SetCell(row, 2, tview.NewTableCell(opp.BuyFrom.Venue))
		d.oppTable.SetCell(row, 3, tview.NewTableCell(opp.SellTo.Venue))
		d.oppTable.SetCell(row, 4, tview.NewTableCell(fmt.Sprintf("%.4f", opp.SpreadPct)))
		d.oppTable.SetCell(row, 5, tview.NewTableCell(fmt.Sprintf("%.2f", opp.TradeSize)))
		d.oppTable.SetCell(row, 6, tview.NewTableCell(fmt.Sprintf("%.2f", opp.NetProfitUSD)).
			SetTextColor(tcell.ColorGreen))
	}
}

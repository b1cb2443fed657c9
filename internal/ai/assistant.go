package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/gulfretail/gulfposgo/internal/pos"
	"github.com/gulfretail/gulfposgo/internal/store"
	"github.com/gulfretail/gulfposgo/internal/utils"
)

const lowStockThreshold = 5

// Assistant answers shop questions by classifying them into a report
// intent, running the matching report over the store, and letting the
// model phrase the answer from the report data only.
type Assistant struct {
	llm     *GeminiClient
	svc     *pos.Service
	store   store.Store
	reports map[string]reportFunc
}

type reportFunc func(ctx context.Context, days int) (interface{}, error)

type intentReply struct {
	Intent string `json:"intent"`
	Days   int    `json:"days"`
}

// Answer is what the assistant endpoint returns
type Answer struct {
	Intent  string      `json:"intent"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewAssistant wires the assistant over the POS service and store
func NewAssistant(llm *GeminiClient, svc *pos.Service, st store.Store) *Assistant {
	a := &Assistant{llm: llm, svc: svc, store: st}
	a.reports = map[string]reportFunc{
		"daily_sales":  a.reportDailySales,
		"low_stock":    a.reportLowStock,
		"top_products": a.reportTopProducts,
		"recent_undos": a.reportRecentUndos,
	}
	return a
}

// Ask classifies the question, runs the report, and phrases an answer.
func (a *Assistant) Ask(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is empty")
	}

	intent, days := a.classify(ctx, question)

	report, ok := a.reports[intent]
	if !ok {
		// General questions get no report data, only a direct reply
		msg, err := a.llm.GenerateContent(ctx, fmt.Sprintf(answerPrompt, question, "(no report data)"))
		if err != nil {
			return nil, err
		}
		return &Answer{Intent: "general", Message: strings.TrimSpace(msg)}, nil
	}

	data, err := report(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("report %s failed: %w", intent, err)
	}

	dataJSON, _ := json.MarshalIndent(data, "", "  ")
	msg, err := a.llm.GenerateContent(ctx, fmt.Sprintf(answerPrompt, question, string(dataJSON)))
	if err != nil {
		// The report still has value without the phrasing
		log.Printf("⚠️ Assistant phrasing failed, returning raw report: %v", err)
		return &Answer{Intent: intent, Message: "Here is the report data.", Data: data}, nil
	}

	return &Answer{Intent: intent, Message: strings.TrimSpace(msg), Data: data}, nil
}

func (a *Assistant) classify(ctx context.Context, question string) (string, int) {
	raw, err := a.llm.GenerateContent(ctx, fmt.Sprintf(classifyPrompt, question))
	if err != nil {
		log.Printf("⚠️ Intent classification failed: %v", err)
		return "general", 1
	}

	var reply intentReply
	if err := json.Unmarshal([]byte(utils.SanitizeJSON(raw)), &reply); err != nil {
		log.Printf("⚠️ Unparseable intent reply: %v", err)
		return "general", 1
	}
	if reply.Days <= 0 {
		reply.Days = 1
	}
	if reply.Days > 90 {
		reply.Days = 90
	}
	return reply.Intent, reply.Days
}

func (a *Assistant) reportDailySales(ctx context.Context, _ int) (interface{}, error) {
	return a.svc.ReportDaily(ctx, time.Now())
}

func (a *Assistant) reportLowStock(ctx context.Context, _ int) (interface{}, error) {
	products, err := a.store.ListProducts(ctx, false)
	if err != nil {
		return nil, err
	}
	type lowItem struct {
		Name  string `json:"name"`
		UPC   string `json:"upc"`
		Stock int    `json:"stock"`
	}
	var low []lowItem
	for _, p := range products {
		if p.Stock <= lowStockThreshold {
			low = append(low, lowItem{Name: p.Name, UPC: p.UPC, Stock: p.Stock})
		}
	}
	sort.Slice(low, func(i, j int) bool { return low[i].Stock < low[j].Stock })
	return map[string]interface{}{"threshold": lowStockThreshold, "products": low}, nil
}

func (a *Assistant) reportTopProducts(ctx context.Context, days int) (interface{}, error) {
	from := time.Now().UTC().AddDate(0, 0, -days)
	items, err := a.store.ListSaleItems(ctx, store.SaleQuery{From: from})
	if err != nil {
		return nil, err
	}
	type ranked struct {
		Name     string  `json:"name"`
		Quantity int     `json:"quantity"`
		Revenue  float64 `json:"revenue"`
	}
	byName := make(map[string]*ranked)
	for _, it := range items {
		r, ok := byName[it.ProductName]
		if !ok {
			r = &ranked{Name: it.ProductName}
			byName[it.ProductName] = r
		}
		r.Quantity += it.Quantity
		r.Revenue = pos.Round2(r.Revenue + it.Total())
	}
	top := make([]ranked, 0, len(byName))
	for _, r := range byName {
		top = append(top, *r)
	}
	sort.Slice(top, func(i, j int) bool { return top[i].Quantity > top[j].Quantity })
	if len(top) > 10 {
		top = top[:10]
	}
	return map[string]interface{}{"days": days, "products": top}, nil
}

func (a *Assistant) reportRecentUndos(ctx context.Context, _ int) (interface{}, error) {
	return a.store.ListUndoLogs(ctx, 20)
}

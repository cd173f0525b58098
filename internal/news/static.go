package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/types"
)

type headline struct {
	title       string
	description string
	category    string
}

var marketHeadlines = []headline{
	{"Nifty 50 Surges to New Highs Amid Strong Corporate Earnings", "The Nifty 50 index reached new record levels today, driven by strong quarterly results from major companies. Banking and IT sectors led the rally with significant gains.", "market"},
	{"RBI Maintains Repo Rate at 6.5% in Latest Policy Meeting", "The Reserve Bank of India kept the repo rate unchanged at 6.5% in its latest monetary policy committee meeting, signaling stability in interest rates.", "policy"},
	{"Indian Economy Shows Strong Growth Momentum in Q3", "India's GDP growth for the third quarter exceeded expectations, indicating robust economic recovery and positive outlook for the financial markets.", "economy"},
	{"Foreign Investors Continue to Pour Money into Indian Markets", "Foreign institutional investors (FIIs) have been net buyers in Indian equity markets for the third consecutive month, showing confidence in India's growth story.", "investment"},
	{"Sensex Crosses 75,000 Mark for the First Time", "The BSE Sensex achieved a historic milestone by crossing the 75,000 mark, reflecting strong investor confidence and positive market sentiment.", "market"},
	{"Indian Rupee Strengthens Against US Dollar", "The Indian rupee gained strength against the US dollar, supported by strong foreign inflows and positive economic indicators.", "currency"},
	{"SEBI Introduces New Regulations for Better Market Transparency", "The Securities and Exchange Board of India announced new regulations aimed at improving market transparency and protecting investor interests.", "regulation"},
	{"Indian Banking Sector Shows Strong Recovery Post-Pandemic", "Major Indian banks reported improved asset quality and strong credit growth, indicating a robust recovery in the banking sector.", "banking"},
	{"IT Sector Continues to Drive Market Gains", "Information technology companies led the market rally with strong quarterly performances and positive guidance for future growth.", "technology"},
	{"Oil Prices Stabilize, Positive for Indian Economy", "Global oil prices have stabilized at comfortable levels, providing relief to India's import bill and supporting economic growth.", "commodities"},
}

// stockHeadlines take the company name as their only verb.
var stockHeadlines = []headline{
	{"%s Reports Strong Q3 Results, Beats Estimates", "%s announced better-than-expected quarterly results with strong revenue growth and improved margins. The company's performance exceeded analyst expectations.", "earnings"},
	{"%s Announces New Strategic Initiatives", "%s revealed new strategic plans including expansion into new markets and product diversification, signaling strong growth prospects.", "business"},
	{"%s Stock Gains on Positive Brokerage Ratings", "Leading brokerage firms have upgraded their ratings on the stock, citing strong fundamentals and growth potential.", "analysis"},
	{"%s Expands Operations in Key Markets", "The company announced expansion plans in key domestic and international markets, strengthening its market position.", "expansion"},
	{"%s Partners with Global Technology Leaders", "Strategic partnerships with global technology companies will enhance the company's digital capabilities and market reach.", "partnership"},
	{"%s Receives Industry Recognition for Innovation", "The company has been recognized for its innovative products and services, highlighting its commitment to excellence.", "recognition"},
	{"%s Announces Dividend Distribution", "Shareholders will receive a dividend payout, reflecting the company's strong financial position and commitment to shareholder value.", "dividend"},
	{"%s Implements Cost Optimization Measures", "New cost optimization initiatives are expected to improve operational efficiency and boost profitability in the coming quarters.", "operations"},
}

var marketNewsTags = []string{"nifty", "sensex", "indian market", "stocks"}

const (
	marketNewsSpacing = 2 * time.Hour
	stockNewsSpacing  = 3 * time.Hour
)

// StaticProvider serves a fixed set of headlines. It backs the service when
// scraping is disabled and whenever a live fetch fails.
type StaticProvider struct {
	names map[string]string
	now   func() time.Time
}

var _ interfaces.NewsProvider = (*StaticProvider)(nil)

// NewStaticProvider names companies from universe; unknown symbols use the
// symbol itself.
func NewStaticProvider(universe []types.Stock) *StaticProvider {
	return NewStaticProviderWithClock(universe, time.Now)
}

func NewStaticProviderWithClock(universe []types.Stock, now func() time.Time) *StaticProvider {
	names := make(map[string]string, len(universe))
	for _, s := range universe {
		names[strings.ToUpper(s.Symbol)] = s.Name
	}
	return &StaticProvider{names: names, now: now}
}

func (p *StaticProvider) Fetch(ctx context.Context, symbol string, limit int) ([]types.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := p.now().UTC()
	var out []types.Article
	if symbol == "" {
		out = make([]types.Article, 0, len(marketHeadlines))
		for i, h := range marketHeadlines {
			out = append(out, types.Article{
				Title:       h.title,
				Description: h.description,
				URL:         fmt.Sprintf("https://example.com/news/%d", i),
				Source:      newsSources[i%len(newsSources)],
				PublishedAt: now.Add(-time.Duration(i) * marketNewsSpacing),
				Category:    h.category,
				Tags:        append([]string(nil), marketNewsTags...),
			})
		}
	} else {
		symbol = strings.ToUpper(symbol)
		name := p.companyName(symbol)
		out = make([]types.Article, 0, len(stockHeadlines))
		for i, h := range stockHeadlines {
			desc := h.description
			if strings.Contains(desc, "%s") {
				desc = fmt.Sprintf(desc, name)
			}
			out = append(out, types.Article{
				Title:       fmt.Sprintf(h.title, name),
				Description: desc,
				URL:         fmt.Sprintf("https://example.com/news/%s/%d", symbol, i),
				Source:      newsSources[i%len(newsSources)],
				PublishedAt: now.Add(-time.Duration(i) * stockNewsSpacing),
				Category:    h.category,
				Symbol:      symbol,
				Tags:        keywordsFor(symbol),
			})
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (p *StaticProvider) companyName(symbol string) string {
	if n, ok := p.names[symbol]; ok && n != "" {
		return n
	}
	return symbol
}

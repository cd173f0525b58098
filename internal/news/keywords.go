package news

import (
	"regexp"
	"sort"
	"strings"
)

// stockKeywords are the phrases that identify a constituent in headline text.
var stockKeywords = map[string][]string{
	"RELIANCE": {"reliance", "ril", "reliance industries", "mukesh ambani"},
	"TCS": {"tcs", "tata consultancy services", "tata consultancy"},
	"HDFCBANK": {"hdfc bank", "hdfc", "housing development finance"},
	"ICICIBANK": {"icici bank", "icici"},
	"INFY": {"infosys", "infy"},
	"ITC": {"itc", "itc ltd"},
	"SBIN": {"sbi", "state bank of india", "state bank"},
	"BHARTIARTL": {"bharti airtel", "airtel", "bharti"},
	"KOTAKBANK": {"kotak bank", "kotak mahindra"},
	"AXISBANK": {"axis bank"},
	"ASIANPAINT": {"asian paints", "asian paint"},
	"MARUTI": {"maruti suzuki", "maruti"},
	"HINDUNILVR": {"hindustan unilever", "hul", "hindustan unilever ltd"},
	"ULTRACEMCO": {"ultratech cement", "ultratech"},
	"TITAN": {"titan company", "titan"},
	"WIPRO": {"wipro"},
	"BAJFINANCE": {"bajaj finance"},
	"NESTLEIND": {"nestle india", "nestle"},
	"POWERGRID": {"power grid", "powergrid"},
	"NTPC": {"ntpc"},
	"TATASTEEL": {"tata steel"},
	"HCLTECH": {"hcl technologies", "hcl tech"},
	"BAJAJFINSV": {"bajaj finserv"},
	"SUNPHARMA": {"sun pharmaceutical", "sun pharma"},
	"TECHM": {"tech mahindra"},
	"JSWSTEEL": {"jsw steel"},
	"ONGC": {"ongc", "oil and natural gas"},
	"COALINDIA": {"coal india"},
	"DRREDDY": {"dr reddy", "dr reddys"},
	"HINDALCO": {"hindalco"},
	"TATAMOTORS": {"tata motors"},
	"BRITANNIA": {"britannia"},
	"EICHERMOT": {"eicher motors", "eicher"},
	"SHREECEM": {"shree cement"},
	"ADANIENT": {"adani enterprises", "adani"},
	"ADANIPORTS": {"adani ports"},
	"HEROMOTOCO": {"hero motocorp", "hero"},
	"INDUSINDBK": {"indusind bank"},
	"SBILIFE": {"sbi life", "sbi life insurance"},
	"HDFCLIFE": {"hdfc life", "hdfc life insurance"},
	"ICICIPRULI": {"icici prudential", "icici pru"},
	"IOC": {"indian oil", "ioc"},
	"BPCL": {"bharat petroleum", "bpcl"},
	"M&M": {"mahindra", "mahindra & mahindra"},
	"LT": {"l&t", "larsen & toubro", "larsen and toubro"},
	"IDEA": {"vodafone idea", "idea cellular"},
	"LTIM": {"l&t technology", "ltim"},
	"PERSISTENT": {"persistent systems"},
}

var newsSources = []string{
	"Economic Times",
	"Business Standard",
	"LiveMint",
	"MoneyControl",
	"NDTV Business",
	"CNBC TV18",
	"Zee Business",
	"Financial Express",
	"The Hindu BusinessLine",
	"Financial Express Online",
}

var (
	sectorTags = []string{"banking", "it", "automotive", "pharma", "fmcg", "metals", "cement", "telecom", "power", "infrastructure", "oil", "gas"}
	marketTags = []string{"nifty", "sensex", "bse", "nse", "market", "trading", "stocks", "shares"}
)

var (
	tagPatterns    = compileWordPatterns(append(append([]string{}, sectorTags...), marketTags...))
	symbolPatterns = compileSymbolPatterns()
)

// exactTags only match in the given case; "it" would otherwise hit the pronoun.
var exactTags = map[string]string{"it": "IT"}

func compileWordPatterns(words []string) map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(words))
	for _, w := range words {
		if exact, ok := exactTags[w]; ok {
			out[w] = regexp.MustCompile(`(^|[^\pL\pN])` + regexp.QuoteMeta(exact) + `($|[^\pL\pN])`)
			continue
		}
		out[w] = wordPattern(w)
	}
	return out
}

func compileSymbolPatterns() map[string][]*regexp.Regexp {
	out := make(map[string][]*regexp.Regexp, len(stockKeywords))
	for sym, kws := range stockKeywords {
		ps := []*regexp.Regexp{wordPattern(strings.ToLower(sym))}
		for _, kw := range kws {
			ps = append(ps, wordPattern(kw))
		}
		out[sym] = ps
	}
	return out
}

// wordPattern matches phrase case-insensitively on word boundaries.
func wordPattern(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(^|[^\pL\pN])` + regexp.QuoteMeta(phrase) + `($|[^\pL\pN])`)
}

// extractTags returns the sector and market terms mentioned in content, in
// declaration order.
func extractTags(content string) []string {
	tags := make([]string, 0)
	for _, group := range [][]string{sectorTags, marketTags} {
		for _, t := range group {
			if tagPatterns[t].MatchString(content) {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// extractStockSymbols returns the sorted symbols whose ticker or company
// keywords appear in content.
func extractStockSymbols(content string) []string {
	symbols := make([]string, 0)
	for sym, ps := range symbolPatterns {
		for _, p := range ps {
			if p.MatchString(content) {
				symbols = append(symbols, sym)
				break
			}
		}
	}
	sort.Strings(symbols)
	return symbols
}

// keywordsFor falls back to the lowercased symbol for names without a list.
func keywordsFor(symbol string) []string {
	if kws, ok := stockKeywords[symbol]; ok {
		out := make([]string, len(kws))
		copy(out, kws)
		return out
	}
	return []string{strings.ToLower(symbol)}
}

// Command analyze scores a piece of text or a single quote from the command line.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"market-sentiment/internal/sentiment"
	"market-sentiment/internal/types"
)

type options struct {
	text    string
	symbol  string
	price   float64
	prev    float64
	high    float64
	low     float64
	volume  float64
	avg     float64
	history string
	asJSON  bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, out io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&o.text, "text", "", "text to score (headline, tweet, note)")
	fs.StringVar(&o.symbol, "symbol", "", "symbol of the quote being scored")
	fs.Float64Var(&o.price, "price", 0, "last traded price")
	fs.Float64Var(&o.prev, "prev", 0, "previous close")
	fs.Float64Var(&o.high, "high", 0, "day high")
	fs.Float64Var(&o.low, "low", 0, "day low")
	fs.Float64Var(&o.volume, "volume", 0, "volume traded today")
	fs.Float64Var(&o.avg, "avg", 0, "average daily volume")
	fs.StringVar(&o.history, "history", "", "comma separated closing prices, oldest first")
	fs.BoolVar(&o.asJSON, "json", false, "print the raw result as JSON")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.text == "" && o.price == 0 {
		fs.Usage()
		return o, errors.New("either -text or -price is required")
	}
	return o, nil
}

func run(args []string, out io.Writer) error {
	o, err := parseFlags(args, out)
	if err != nil {
		return err
	}
	ctx := context.Background()

	if o.text != "" {
		res := sentiment.NewTextAnalyzer().Analyze(ctx, o.text)
		if o.asJSON {
			return writeJSON(out, res)
		}
		printText(out, res)
		return nil
	}

	history, err := parseHistory(o.history)
	if err != nil {
		return err
	}
	in := types.StockInput{
		Symbol:        strings.ToUpper(o.symbol),
		Price:         o.price,
		PreviousClose: o.prev,
		DayHigh:       o.high,
		DayLow:        o.low,
		Volume:        o.volume,
		AvgVolume:     o.avg,
		PriceHistory:  history,
	}
	data, err := sentiment.NewMarketAnalyzer().AnalyzeStock(ctx, in)
	if err != nil {
		return err
	}
	if o.asJSON {
		return writeJSON(out, data)
	}
	printStock(out, in, data)
	return nil
}

func parseHistory(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid -history value %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printText(out io.Writer, res types.SentimentResult) {
	fmt.Fprintf(out, "Label:       %s\n", res.Label)
	fmt.Fprintf(out, "Score:       %s\n", humanize.FormatFloat("#,###.##", res.Score))
	fmt.Fprintf(out, "Comparative: %s\n", humanize.FormatFloat("#,###.###", res.Comparative))
	fmt.Fprintf(out, "Confidence:  %s\n", humanize.FormatFloat("#,###.##", res.Confidence))
	fmt.Fprintf(out, "Magnitude:   %s\n", humanize.FormatFloat("#,###.##", res.Magnitude))
	if len(res.Keywords) > 0 {
		fmt.Fprintf(out, "Keywords:    %s\n", strings.Join(res.Keywords, ", "))
	}
}

func printStock(out io.Writer, in types.StockInput, d types.StockSentimentData) {
	if in.Symbol != "" {
		fmt.Fprintf(out, "Symbol:     %s\n", in.Symbol)
	}
	fmt.Fprintf(out, "Price:      %s (prev %s)\n",
		humanize.FormatFloat("#,###.##", in.Price), humanize.FormatFloat("#,###.##", in.PreviousClose))
	if in.Volume > 0 {
		fmt.Fprintf(out, "Volume:     %s\n", humanize.Comma(int64(in.Volume)))
	}
	fmt.Fprintf(out, "Trend:      %s (%s)\n", d.Trend, d.Strength)
	fmt.Fprintf(out, "Overall:    %s / 10\n", humanize.FormatFloat("#.##", d.OverallSentiment))
	fmt.Fprintf(out, "Confidence: %s\n", humanize.FormatFloat("#.##", d.Confidence))
	fmt.Fprintf(out, "  price      %s\n", humanize.FormatFloat("#.##", d.PriceSentiment))
	fmt.Fprintf(out, "  volume     %s\n", humanize.FormatFloat("#.##", d.VolumeSentiment))
	fmt.Fprintf(out, "  volatility %s\n", humanize.FormatFloat("#.##", d.VolatilitySentiment))
	fmt.Fprintf(out, "  momentum   %s\n", humanize.FormatFloat("#.##", d.MomentumSentiment))
}

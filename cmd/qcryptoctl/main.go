package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"qcrypto-wallet/internal/client"
	"qcrypto-wallet/internal/clipboard"
	"qcrypto-wallet/internal/config"
	"qcrypto-wallet/internal/format"
	"qcrypto-wallet/internal/ledger"
	"qcrypto-wallet/internal/logger"
	"qcrypto-wallet/internal/trade"
)

const usage = `usage: qcryptoctl [--config dir] [--url base] <command> [flags] [args]

commands:
  portfolio                     portfolio total and 30-day change
  wallets                       wallets and their addresses
  address <currency>            generate a deposit address
  prices                        current prices
  transactions                  transaction history (filters: --range --currency --type --min --max)
  stats                         ledger statistics
  buy|sell <asset> <amount>     trade, amount in EUR unless --crypto
  positions                     staking positions
  stake <currency> <amount>     stake (--option id)
  unstake <position-id>         release an expired position
  settlement                    settlement account (--copy-iban)
  login [email]                 sign in
  logout                        sign out
  notice                        current notice
`

type cli struct {
	api  *client.Client
	args []string
}

func main() {
	global := pflag.NewFlagSet("qcryptoctl", pflag.ContinueOnError)
	global.SetInterspersed(false)
	configDir := global.String("config", "./configs", "directory holding config.yml")
	baseURL := global.String("url", "", "API base URL (overrides client.base_url)")
	verbose := global.BoolP("verbose", "v", false, "log requests")
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	if err := global.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if global.NArg() == 0 {
		global.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.Client.BaseURL = *baseURL
	}
	level := "warn"
	if *verbose {
		level = "debug"
	}
	log, err := logger.NewLogger(level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := &cli{api: client.New(cfg.Client, log), args: global.Args()[1:]}
	if err := c.run(ctx, global.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (c *cli) run(ctx context.Context, command string) error {
	switch command {
	case "portfolio":
		return c.portfolio(ctx)
	case "wallets":
		return c.wallets(ctx)
	case "address":
		return c.address(ctx)
	case "prices":
		return c.prices(ctx)
	case "transactions":
		return c.transactions(ctx)
	case "stats":
		return c.stats(ctx)
	case "buy":
		return c.trade(ctx, trade.SideBuy)
	case "sell":
		return c.trade(ctx, trade.SideSell)
	case "positions":
		return c.positions(ctx)
	case "stake":
		return c.stake(ctx)
	case "unstake":
		return c.unstake(ctx)
	case "settlement":
		return c.settlement(ctx)
	case "login":
		return c.login(ctx)
	case "logout":
		return c.api.Logout(ctx)
	case "notice":
		return c.notice(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// flags parses the arguments of a subcommand and requires n positionals.
func (c *cli) flags(name string, n int, define func(*pflag.FlagSet)) ([]string, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if define != nil {
		define(fs)
	}
	if err := fs.Parse(c.args); err != nil {
		return nil, err
	}
	if fs.NArg() < n {
		return nil, fmt.Errorf("%s: expected %d argument(s), got %d", name, n, fs.NArg())
	}
	return fs.Args(), nil
}

func (c *cli) portfolio(ctx context.Context) error {
	p, err := c.api.Portfolio(ctx, 30)
	if err != nil {
		return err
	}
	fmt.Printf("Total:      %s\n", format.Currency(p.Total, "EUR"))
	fmt.Printf("30d change: %s (%s)\n", format.Currency(p.Change.Amount, "EUR"), format.Percentage(p.Change.Percentage, true))
	for _, w := range p.Wallets {
		fmt.Printf("  %-5s %24s %18s\n", w.Currency, format.Crypto(w.TotalBalance, w.Currency), format.Currency(w.EuroValue, "EUR"))
	}
	return nil
}

func (c *cli) wallets(ctx context.Context) error {
	wallets, err := c.api.Wallets(ctx)
	if err != nil {
		return err
	}
	for _, w := range wallets {
		fmt.Printf("%s (%s)  %s  %s\n", w.Name, w.Currency, format.Crypto(w.TotalBalance, w.Currency), format.Currency(w.EuroValue, "EUR"))
		for _, a := range w.Addresses {
			fmt.Printf("  %-8s %-24s %s  %s\n", a.UID, a.Label, format.Address(a.Address), format.Crypto(a.Balance, w.Currency))
		}
	}
	return nil
}

func (c *cli) address(ctx context.Context) error {
	var copyIt bool
	args, err := c.flags("address", 1, func(fs *pflag.FlagSet) {
		fs.BoolVar(&copyIt, "copy", false, "copy the new address to the clipboard")
	})
	if err != nil {
		return err
	}
	addr, err := c.api.GenerateAddress(ctx, strings.ToUpper(args[0]))
	if err != nil {
		return err
	}
	fmt.Printf("%s  %s\n%s\n", addr.UID, addr.Label, addr.Address)
	if copyIt {
		return clipboard.Copy(clipboard.System{}, addr.Address, "address", nil)
	}
	return nil
}

func (c *cli) prices(ctx context.Context) error {
	prices, err := c.api.Prices(ctx)
	if err != nil {
		return err
	}
	for _, p := range prices {
		fmt.Printf("%-5s %16s  24h %8s  7d %8s  30d %8s\n", p.Currency, format.Currency(p.CurrentPrice, "EUR"),
			format.Percentage(p.Change24h, true), format.Percentage(p.Change7d, true), format.Percentage(p.Change30d, true))
	}
	return nil
}

func (c *cli) transactions(ctx context.Context) error {
	var q client.TransactionQuery
	if _, err := c.flags("transactions", 0, func(fs *pflag.FlagSet) {
		fs.StringVar(&q.DateRange, "range", "", "7d, 30d or 90d")
		fs.StringVar(&q.Currency, "currency", "", "currency code")
		fs.StringVar(&q.Type, "type", "", "deposit, withdrawal, trade, buy or sell")
		fs.StringVar(&q.MinValue, "min", "", "minimum fiat value")
		fs.StringVar(&q.MaxValue, "max", "", "maximum fiat value")
	}); err != nil {
		return err
	}
	txs, err := c.api.Transactions(ctx, q)
	if err != nil {
		return err
	}
	for _, tx := range txs {
		fmt.Printf("%-10s %-19s %-10s %-10s %22s %18s\n", tx.UID, tx.Timestamp.Format("2006-01-02 15:04"), tx.Type, tx.Status,
			format.Crypto(tx.Amount, tx.Currency), format.Currency(tx.FiatValue, "EUR"))
	}
	fmt.Printf("%d transaction(s)\n", len(txs))
	return nil
}

func (c *cli) stats(ctx context.Context) error {
	s, err := c.api.Statistics(ctx)
	if err != nil {
		return err
	}
	for _, row := range []struct {
		name string
		d    ledger.StatsDetail
	}{{"24h", s.Since24h}, {"All time", s.AllTime}} {
		fmt.Printf("%-9s %d transactions, %d completed (%.1f%%), %d pending, volume %s, %d trades\n",
			row.name, row.d.TotalTransactions, row.d.Completed, row.d.CompletionRate*100, row.d.Pending,
			format.Currency(row.d.Volume, "EUR"), row.d.Trades)
	}
	return nil
}

func (c *cli) trade(ctx context.Context, side trade.Side) error {
	var inCrypto, yes bool
	args, err := c.flags(string(side), 2, func(fs *pflag.FlagSet) {
		fs.BoolVar(&inCrypto, "crypto", false, "amount is in units of the asset")
		fs.BoolVarP(&yes, "yes", "y", false, "confirm without prompting")
	})
	if err != nil {
		return err
	}
	mode := trade.InputFiat
	if inCrypto {
		mode = trade.InputCrypto
	}
	asset := strings.ToUpper(args[0])
	if _, err := c.api.SelectTrade(ctx, asset, side, mode); err != nil {
		return err
	}
	if _, err := c.api.SetTradeInput(ctx, args[1]); err != nil {
		return err
	}
	d, err := c.api.InitiateTrade(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s for %s at %s. Confirm within %ds? [y/N] ", format.Title(string(d.Side)),
		format.Crypto(d.Amount, d.Asset), format.Currency(d.FiatValue, "EUR"), format.Currency(d.PriceAtEntry, "EUR"), d.CountdownSeconds)
	if !yes {
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			return c.api.CancelTrade(ctx)
		}
	} else {
		fmt.Println("y")
	}
	tx, err := c.api.ConfirmTrade(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Executed %s\n", tx.UID)
	return nil
}

func (c *cli) positions(ctx context.Context) error {
	positions, err := c.api.Positions(ctx)
	if err != nil {
		return err
	}
	for _, p := range positions {
		fmt.Printf("%-8s %-5s %20s  APY %-7s %-9s %s\n", p.UID, p.Currency, format.Crypto(p.AmountStaked, p.Currency),
			format.APY(p.APY), p.Status, format.Duration(p.TimeRemaining))
	}
	summary, err := c.api.StakingSummary(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Locked value %s, projected yearly %s\n", format.Currency(summary.TotalLockedValue, "EUR"), format.Currency(summary.ProjectedYearly, "EUR"))
	return nil
}

func (c *cli) stake(ctx context.Context) error {
	var option string
	args, err := c.flags("stake", 2, func(fs *pflag.FlagSet) {
		fs.StringVar(&option, "option", "", "staking option id")
	})
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("amount %q is not a number", args[1])
	}
	pos, err := c.api.Stake(ctx, strings.ToUpper(args[0]), amount, option)
	if err != nil {
		return err
	}
	fmt.Printf("Staked %s as %s until %s\n", format.Crypto(pos.AmountStaked, pos.Currency), pos.UID, pos.ExpirationDate.Format("Jan 2, 2006 15:04"))
	return nil
}

func (c *cli) unstake(ctx context.Context) error {
	args, err := c.flags("unstake", 1, nil)
	if err != nil {
		return err
	}
	pos, err := c.api.Unstake(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Unstaked %s\n", format.Crypto(pos.AmountStaked, pos.Currency))
	return nil
}

func (c *cli) settlement(ctx context.Context) error {
	var copyIBAN bool
	if _, err := c.flags("settlement", 0, func(fs *pflag.FlagSet) {
		fs.BoolVar(&copyIBAN, "copy-iban", false, "copy the IBAN to the clipboard")
	}); err != nil {
		return err
	}
	s, err := c.api.Settlement(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Balance     %s of %s (%s%% used, %s)\n", format.Currency(s.Account.Balance, s.Account.Currency),
		format.Currency(s.Account.MaxLimit, s.Account.Currency), s.Utilization.StringFixed(2), s.Status)
	fmt.Printf("Available   %s\n", format.Currency(s.Available, s.Account.Currency))
	fmt.Printf("Due in      %dh\n", s.HoursUntilDue)
	fmt.Printf("IBAN        %s\nBIC         %s\nBeneficiary %s\nBank        %s\n", s.Account.IBAN, s.Account.BIC, s.Account.Beneficiary, s.Account.BankName)
	if copyIBAN {
		return clipboard.Copy(clipboard.System{}, s.Account.IBAN, "IBAN", nil)
	}
	return nil
}

func (c *cli) login(ctx context.Context) error {
	var password string
	args, err := c.flags("login", 0, func(fs *pflag.FlagSet) {
		fs.StringVar(&password, "password", "", "ignored by the demo gate")
	})
	if err != nil {
		return err
	}
	email := ""
	if len(args) > 0 {
		email = args[0]
	}
	return c.api.Login(ctx, email, password)
}

func (c *cli) notice(ctx context.Context) error {
	n, ok, err := c.api.Notice(ctx)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("No notice")
		return nil
	}
	fmt.Printf("[%s] %s\n", n.Severity, n.Message)
	return nil
}

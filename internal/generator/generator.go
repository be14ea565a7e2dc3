package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/ananya/fraudlens/backend/internal/service"
)

// Dataset contains the generated users and transactions.
type Dataset struct {
	Users        []service.UserInput        `json:"users"`
	Transactions []service.TransactionInput `json:"transactions"`
}

// Generator produces synthetic graph data aligned with the linkage schema:
// users that collide on email, phone, address or payment methods, and
// transactions that collide on IP or device.
type Generator struct {
	cfg   Config
	rand  *rand.Rand
	names names
	pools pools
}

type pools struct {
	emails    []string
	phones    []string
	addresses []string
	payments  [][]string
	ips       []string
	devices   []string
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumUsers <= 0 {
		cfg.NumUsers = def.NumUsers
	}
	if cfg.NumTransactions <= 0 {
		cfg.NumTransactions = def.NumTransactions
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:   cfg,
		rand:  rand.New(rand.NewSource(cfg.Seed)),
		names: defaultNames(),
	}
}

// Generate synthesises users and transactions. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	users := make([]service.UserInput, g.cfg.NumUsers)
	for i := 0; i < g.cfg.NumUsers; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}

		userID := fmt.Sprintf("u%04d", i+1)
		users[i] = service.UserInput{
			ID:      userID,
			Name:    g.randomName(),
			Email:   g.maybeShared(&g.pools.emails, g.cfg.EmailShareChance, g.randomEmail),
			Phone:   g.maybeShared(&g.pools.phones, g.cfg.PhoneShareChance, g.randomPhone),
			Address: g.maybeShared(&g.pools.addresses, g.cfg.AddressShareChance, g.randomAddress),
			PaymentMethods: g.maybeSharedPayments(userID),
		}
	}

	transactions := make([]service.TransactionInput, g.cfg.NumTransactions)
	for i := 0; i < g.cfg.NumTransactions; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}

		senderIdx := g.rand.Intn(len(users))
		receiverIdx := g.rand.Intn(len(users))
		if senderIdx == receiverIdx {
			receiverIdx = (receiverIdx + 1) % len(users)
		}

		transactions[i] = service.TransactionInput{
			ID:         fmt.Sprintf("TXN%05d", i+1),
			SenderID:   users[senderIdx].ID,
			ReceiverID: users[receiverIdx].ID,
			Amount:     float64(g.rand.Intn(490000)+1000) / 100,
			IP:         g.maybeShared(&g.pools.ips, g.cfg.IPShareChance, g.randomIP),
			DeviceID:   g.maybeShared(&g.pools.devices, g.cfg.DeviceShareChance, g.randomDeviceID),
		}
	}

	return Dataset{Users: users, Transactions: transactions}, nil
}

func (g *Generator) maybeShared(pool *[]string, chance float64, newValue func() string) string {
	if len(*pool) > 0 && g.rand.Float64() < chance {
		return (*pool)[g.rand.Intn(len(*pool))]
	}
	val := newValue()
	*pool = append(*pool, val)
	return val
}

func (g *Generator) maybeSharedPayments(userID string) []string {
	if len(g.pools.payments) > 0 && g.rand.Float64() < g.cfg.PaymentShareChance {
		set := g.pools.payments[g.rand.Intn(len(g.pools.payments))]
		return append([]string(nil), set...)
	}
	count := 1 + g.rand.Intn(2)
	set := make([]string, 0, count)
	for i := 0; i < count; i++ {
		set = append(set, fmt.Sprintf("PM-%s-%d", userID, i+1))
	}
	g.pools.payments = append(g.pools.payments, set)
	return set
}

func (g *Generator) randomName() string {
	return fmt.Sprintf("%s %s",
		g.names.first[g.rand.Intn(len(g.names.first))],
		g.names.last[g.rand.Intn(len(g.names.last))])
}

func (g *Generator) randomEmail() string {
	return fmt.Sprintf("%s.%s%d@%s",
		g.names.first[g.rand.Intn(len(g.names.first))],
		g.names.last[g.rand.Intn(len(g.names.last))],
		g.rand.Intn(100),
		g.names.domains[g.rand.Intn(len(g.names.domains))])
}

func (g *Generator) randomPhone() string {
	return fmt.Sprintf("+1%03d%03d%04d", g.rand.Intn(900)+100, g.rand.Intn(900)+100, g.rand.Intn(10000))
}

func (g *Generator) randomAddress() string {
	return fmt.Sprintf("%d %s %s, %s",
		g.rand.Intn(9999)+1,
		g.names.streets[g.rand.Intn(len(g.names.streets))],
		g.names.suffixes[g.rand.Intn(len(g.names.suffixes))],
		g.names.cities[g.rand.Intn(len(g.names.cities))])
}

func (g *Generator) randomIP() string {
	return fmt.Sprintf("%d.%d.%d.%d", g.rand.Intn(223)+1, g.rand.Intn(256), g.rand.Intn(256), g.rand.Intn(256))
}

func (g *Generator) randomDeviceID() string {
	return fmt.Sprintf("DVC%06d", g.rand.Intn(999999))
}

type names struct {
	first    []string
	last     []string
	domains  []string
	streets  []string
	suffixes []string
	cities   []string
}

func defaultNames() names {
	return names{
		first:    []string{"Jane", "John", "Alex", "Priya", "Liu", "Maria", "Omar", "Sofia", "Noah", "Emma", "Lucas", "Mia", "Ava", "Ethan", "Zara"},
		last:     []string{"Doe", "Smith", "Chen", "Patel", "Garcia", "Khan", "Kim", "Ivanov", "Nguyen", "Silva", "Brown", "Lee"},
		domains:  []string{"example.com", "mail.com", "payments.net", "securepay.org"},
		streets:  []string{"Market", "Mission", "Broadway", "Fifth", "Sunset", "Park", "Cedar", "Oak", "Pine", "Ash"},
		suffixes: []string{"St", "Ave", "Blvd", "Ln", "Rd", "Way"},
		cities:   []string{"San Francisco", "New York", "Seattle", "Austin", "Chicago", "Miami", "Denver", "Boston"},
	}
}

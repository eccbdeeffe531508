package notify

import (
	"context"
	"fmt"
	"strings"

	"brewhouse/internal/structs"
	"brewhouse/pkg/config"
	"brewhouse/pkg/email"
	"brewhouse/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(NewConfig, New)
)

// EmailSender is satisfied by email.Sender; tests plug in fakes.
type EmailSender interface {
	Send(to []string, subject, body string) error
}

// Config carries everything the dispatcher needs, resolved once at
// construction. The dispatcher never reads ambient settings.
type Config struct {
	OwnerEmail string
	Sender     EmailSender
}

// Result reports both deliveries of one order notification. Checkout logs it
// and moves on; a nil error pair means both mails went out.
type Result struct {
	CustomerErr error
	OwnerErr    error
}

func (r Result) Ok() bool {
	return r.CustomerErr == nil && r.OwnerErr == nil
}

type (
	Params struct {
		fx.In
		Config Config
		Logger logger.Logger
	}

	Dispatcher interface {
		// OrderCreated sends the customer confirmation and the owner alert.
		// Both sends are attempted regardless of each other's outcome and
		// neither failure escapes the Result.
		OrderCreated(ctx context.Context, order structs.Order) Result
	}

	dispatcher struct {
		ownerEmail string
		sender     EmailSender
		logger     logger.Logger
	}
)

func NewConfig(cfg config.IConfig) Config {
	return Config{
		OwnerEmail: cfg.GetString("notify.owner_email"),
		Sender: email.Sender{
			Login:    cfg.GetString("smtp.login"),
			Password: cfg.GetString("smtp.password"),
			Server: email.SMTPServer{
				Host: cfg.GetString("smtp.host"),
				Port: cfg.GetString("smtp.port"),
			},
		},
	}
}

func New(p Params) Dispatcher {
	return &dispatcher{
		ownerEmail: p.Config.OwnerEmail,
		sender:     p.Config.Sender,
		logger:     p.Logger,
	}
}

func (d *dispatcher) OrderCreated(ctx context.Context, order structs.Order) Result {
	var res Result

	subject := fmt.Sprintf("Order %s confirmed", order.ID)
	if err := d.sender.Send([]string{order.Email}, subject, customerBody(order)); err != nil {
		d.logger.Warn(ctx, "customer notification failed",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
		res.CustomerErr = err
	}

	ownerSubject := fmt.Sprintf("New order %s", order.ID)
	if err := d.sender.Send([]string{d.ownerEmail}, ownerSubject, ownerBody(order)); err != nil {
		d.logger.Warn(ctx, "owner notification failed",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
		res.OwnerErr = err
	}

	return res
}

func customerBody(order structs.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nThank you for your order!\n\n", order.FirstName)
	writeItems(&b, order)
	fmt.Fprintf(&b, "\nTotal: %s\n\nWe will contact you at %s.\n", order.TotalPrice.StringFixed(2), order.Phone)
	return b.String()
}

func ownerBody(order structs.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s from %s %s (%s, %s)\n\n", order.ID, order.FirstName, order.LastName, order.Phone, order.Email)
	writeItems(&b, order)
	fmt.Fprintf(&b, "\nTotal: %s\n", order.TotalPrice.StringFixed(2))
	return b.String()
}

func writeItems(b *strings.Builder, order structs.Order) {
	for _, it := range order.Items {
		if it.Grams > 0 {
			fmt.Fprintf(b, "- %s (%dg) x%d = %s\n", it.ProductName, it.Grams, it.Quantity, it.TotalPrice.StringFixed(2))
		} else {
			fmt.Fprintf(b, "- %s x%d = %s\n", it.ProductName, it.Quantity, it.TotalPrice.StringFixed(2))
		}
	}
}

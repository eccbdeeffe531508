package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"brewhouse/internal/phone"
	"brewhouse/internal/structs"
	"brewhouse/pkg/config"
	"brewhouse/pkg/logger"
	"brewhouse/pkg/tgrouter"
	"brewhouse/pkg/utils"

	"github.com/spf13/cast"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Provide(New)

const (
	greeting = "Hi! Send me the phone number you ordered with and I will show your latest orders.\n\n" +
		"Examples: +375291234567, 80291234567, 89161234567"
	askAgain     = "Please send a phone number, for example +375291234567."
	badPhone     = "That does not look like a phone number I know. Try formats like +375291234567, 80291234567 or +79161234567."
	serviceDown  = "The order service is not responding right now. Please try again in a minute."
	unexpectedly = "Something went wrong on our side. Please try again later."
)

type Params struct {
	fx.In
	Logger logger.Logger
	Config config.IConfig
}

type Commands struct {
	logger    logger.Logger
	client    *http.Client
	lookupURL string
}

func New(p Params) Commands {
	return Commands{
		logger: p.Logger,
		client: &http.Client{
			Timeout: p.Config.GetDuration("bot.http_timeout"),
		},
		lookupURL: p.Config.GetString("bot.lookup_url"),
	}
}

func (c *Commands) Start(ctx *tgrouter.Ctx) {
	c.logger.Info(ctx.Context, "start command", zap.Int64("chat_id", ctx.ChatID()))
	if err := ctx.Reply(greeting); err != nil {
		c.logger.Warn(ctx.Context, "failed to send greeting", zap.Error(err))
	}
}

// Lookup handles any plain text message as a phone number. Input is validated
// locally first so obvious typos never hit the gateway.
func (c *Commands) Lookup(ctx *tgrouter.Ctx) {
	raw := strings.TrimSpace(ctx.Update().Message.Text)
	chatID := ctx.ChatID()

	canonical, err := phone.Normalize(raw)
	if err != nil {
		c.reply(ctx, badPhone)
		return
	}

	c.logger.Info(ctx.Context, "order lookup", zap.Int64("chat_id", chatID))

	found, err := c.fetchOrders(ctx.Context, structs.LookupRequest{
		Phone:     canonical,
		ChatID:    chatID,
		FirstName: firstName(ctx),
		LastName:  lastName(ctx),
	})
	if err != nil {
		c.logger.Error(ctx.Context, "lookup request failed", zap.Error(err))
		c.reply(ctx, serviceDown)
		return
	}

	for _, chunk := range chunkMessage(formatOrders(found), messageLimit) {
		c.reply(ctx, chunk)
	}
}

// Fallback answers anything that is neither a command nor text.
func (c *Commands) Fallback(ctx *tgrouter.Ctx) {
	c.reply(ctx, askAgain)
}

func (c *Commands) reply(ctx *tgrouter.Ctx, text string) {
	if err := ctx.Reply(text); err != nil {
		c.logger.Warn(ctx.Context, "failed to send reply", zap.Error(err))
	}
}

type lookupEnvelope struct {
	Status  int                    `json:"status"`
	Message string                 `json:"message"`
	Payload structs.LookupResponse `json:"payload"`
}

func (c *Commands) fetchOrders(ctx context.Context, req structs.LookupRequest) (structs.LookupResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return structs.LookupResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.lookupURL, bytes.NewReader(body))
	if err != nil {
		return structs.LookupResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return structs.LookupResponse{}, err
	}
	defer resp.Body.Close()

	var envelope lookupEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return structs.LookupResponse{}, err
	}
	if envelope.Status != http.StatusOK {
		return structs.LookupResponse{}, fmt.Errorf("lookup replied %d: %s", envelope.Status, envelope.Message)
	}

	return envelope.Payload, nil
}

// messageLimit is the Telegram per-message text cap in runes.
const messageLimit = 4096

func formatOrders(found structs.LookupResponse) string {
	if found.TotalOrdersFound == 0 {
		return fmt.Sprintf("No orders found for %s. Check the number and try again.", found.Phone)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d order(s) for %s:\n", found.TotalOrdersFound, found.Phone)

	for i, order := range found.Orders {
		fmt.Fprintf(&b, "\n%d) Order %s\n", i+1, order.OrderID)
		fmt.Fprintf(&b, "   Placed: %s\n", order.CreatedAt)
		fmt.Fprintf(&b, "   Status: %s\n", order.Status)
		for _, item := range order.Items {
			fmt.Fprintf(&b, "   - %s x%d: %s\n", item.ProductName, item.Quantity, utils.FCurrency(cast.ToFloat64(item.TotalPrice)))
		}
		fmt.Fprintf(&b, "   Total: %s\n", utils.FCurrency(cast.ToFloat64(order.TotalPrice)))
	}

	return b.String()
}

// chunkMessage splits text into pieces that fit the per-message cap,
// preferring newline boundaries so orders are not torn mid-line.
func chunkMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(runes) > limit {
		cut := limit
		for i := limit - 1; i > limit/2; i-- {
			if runes[i] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, strings.TrimLeft(string(runes), "\n"))
	}
	return chunks
}

func firstName(ctx *tgrouter.Ctx) string {
	if from := ctx.Update().SentFrom(); from != nil {
		return from.FirstName
	}
	return ""
}

func lastName(ctx *tgrouter.Ctx) string {
	if from := ctx.Update().SentFrom(); from != nil {
		return from.LastName
	}
	return ""
}

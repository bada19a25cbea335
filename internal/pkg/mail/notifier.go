package mail

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/impactbridge/platform/internal/models"
	"go.uber.org/zap"
)

const sendTimeout = 30 * time.Second

// Frame carries the values every template's layout needs.
type Frame struct {
	Heading  string
	SiteName string
}

type contactData struct {
	Frame
	*models.ContactMessage
}

type newsletterData struct {
	Frame
	Name           string
	UnsubscribeURL string
}

type proposalData struct {
	Frame
	*models.ProjectProposal
}

type donationData struct {
	Frame
	*models.Donation
	Reference string
}

type resetData struct {
	Frame
	Name     string
	ResetURL string
	ValidFor string
}

// Options configure a Notifier.
type Options struct {
	SiteName    string
	SiteURL     string
	AdminEmails []string
}

// Notifier renders the site's transactional emails and sends them in the
// background. Failures are logged and never reach the caller.
type Notifier struct {
	sender Sender
	opts   Options
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewNotifier(sender Sender, opts Options, logger *zap.Logger) *Notifier {
	if sender == nil {
		sender = Discard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{sender: sender, opts: opts, logger: logger.Named("mail")}
}

// Wait blocks until every queued email has been attempted.
func (n *Notifier) Wait() { n.wg.Wait() }

func (n *Notifier) frame(heading string) Frame {
	return Frame{Heading: heading, SiteName: n.opts.SiteName}
}

func (n *Notifier) link(path string, query url.Values) string {
	u := strings.TrimRight(n.opts.SiteURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (n *Notifier) dispatch(kind string, to []string, replyTo, subject, tpl string, data interface{}) {
	if len(to) == 0 {
		n.logger.Debug("no recipients, skipped", zap.String("kind", kind))
		return
	}
	html, err := renderTemplate(tpl, data)
	if err != nil {
		n.logger.Error("render failed", zap.String("kind", kind), zap.Error(err))
		return
	}
	msg := Message{To: to, ReplyTo: replyTo, Subject: subject, HTML: html}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := n.sender.Send(ctx, msg); err != nil {
			n.logger.Warn("send failed", zap.String("kind", kind), zap.Strings("to", to), zap.Error(err))
			return
		}
		n.logger.Info("sent", zap.String("kind", kind), zap.Strings("to", to))
	}()
}

// ContactReceived notifies the admins and acknowledges the sender.
func (n *Notifier) ContactReceived(m *models.ContactMessage) {
	subject := "New contact message"
	if m.Subject != "" {
		subject += ": " + m.Subject
	}
	n.dispatch("contact_notify", n.opts.AdminEmails, m.Email,
		fmt.Sprintf("[%s] %s", n.opts.SiteName, subject),
		contactNotifyTpl, contactData{Frame: n.frame("New contact message"), ContactMessage: m})
	n.dispatch("contact_ack", []string{m.Email}, "",
		fmt.Sprintf("We received your message - %s", n.opts.SiteName),
		contactAckTpl, contactData{Frame: n.frame("Thanks for contacting us"), ContactMessage: m})
}

// NewsletterWelcome confirms a subscription and includes the unsubscribe link.
func (n *Notifier) NewsletterWelcome(s *models.NewsletterSubscriber) {
	n.dispatch("newsletter_welcome", []string{s.Email}, "",
		fmt.Sprintf("Welcome to the %s newsletter", n.opts.SiteName),
		newsletterWelcomeTpl, newsletterData{
			Frame:          n.frame("You're subscribed"),
			Name:           s.Name,
			UnsubscribeURL: n.link("/api/newsletter/unsubscribe", url.Values{"token": {s.UnsubscribeToken}}),
		})
}

// ProposalReceived notifies the admins of a new project proposal.
func (n *Notifier) ProposalReceived(p *models.ProjectProposal) {
	n.dispatch("proposal_notify", n.opts.AdminEmails, p.Email,
		fmt.Sprintf("[%s] New project proposal from %s", n.opts.SiteName, p.OrganizationName),
		proposalNotifyTpl, proposalData{Frame: n.frame("New project proposal"), ProjectProposal: p})
}

// DonationThanks thanks the donor for a recorded gift.
func (n *Notifier) DonationThanks(d *models.Donation) {
	ref := d.PaymentReference
	if ref == "" {
		ref = fmt.Sprintf("DON-%06d", d.ID)
	}
	n.dispatch("donation_thanks", []string{d.DonorEmail}, "",
		fmt.Sprintf("Thank you for supporting %s", n.opts.SiteName),
		donationThanksTpl, donationData{Frame: n.frame("Thank you"), Donation: d, Reference: ref})
}

// PasswordReset mails a reset link carrying token.
func (n *Notifier) PasswordReset(u *models.User, token string, validFor time.Duration) {
	name := u.FullName
	if name == "" {
		name = u.Username
	}
	n.dispatch("password_reset", []string{u.Email}, "",
		fmt.Sprintf("[%s] Reset your password", n.opts.SiteName),
		passwordResetTpl, resetData{
			Frame:    n.frame("Password reset"),
			Name:     name,
			ResetURL: n.link("/reset-password", url.Values{"token": {token}}),
			ValidFor: validFor.String(),
		})
}

package ml

import (
	"fmt"
	"math/rand"
	"strings"
)

// Synthetic training corpora, used when no labeled dataset is available.
// Generation is seeded with the same fixed seed as training, so the
// fallback models are identical across process restarts.

var phishingHosts = []string{
	"mpesa-secure.xyz", "safaricom-verify.tk", "equity-login.top",
	"kcb-update.click", "paypa1.com", "go0gle.com", "amaz0n-account.info",
	"secure-mpesa.ml", "192.168.44.12", "verify-kra.buzz",
	"x7kq9fj2mzp4.online", "login.safaricom.evil-host.cc",
	"bit.ly", "tinyurl.com", "account-netflix.ga",
}

var phishingPaths = []string{
	"/login", "/verify", "/secure/account", "/update.php?id=%d",
	"/confirm", "/wp-admin/setup.exe", "/claim?ref=%d", "/login/verify",
}

var legitimateHosts = []string{
	"google.com", "github.com", "safaricom.co.ke", "equity.co.ke",
	"kra.go.ke", "nation.africa", "microsoft.com", "amazon.com",
	"paypal.com", "netflix.com", "standardmedia.co.ke", "linkedin.com",
}

var legitimatePaths = []string{
	"/", "/about", "/news/business", "/docs/getting-started",
	"/careers", "/contact", "/blog/%d", "/products",
}

// syntheticURLCorpus assembles labeled URLs from host/path templates
func syntheticURLCorpus() []labeledSample {
	rng := rand.New(rand.NewSource(trainingSeed))
	var samples []labeledSample

	for i := 0; i < 8; i++ {
		for _, host := range phishingHosts {
			path := fill(phishingPaths[rng.Intn(len(phishingPaths))], rng)
			samples = append(samples, labeledSample{content: "http://" + host + path, label: 1})
		}
		for _, host := range legitimateHosts {
			path := fill(legitimatePaths[rng.Intn(len(legitimatePaths))], rng)
			samples = append(samples, labeledSample{content: "https://" + host + path, label: 0})
		}
	}
	return samples
}

// fill substitutes the numeric placeholder some templates carry
func fill(template string, rng *rand.Rand) string {
	if strings.Contains(template, "%d") {
		return fmt.Sprintf(template, rng.Intn(9000)+1000)
	}
	return template
}

var phishingOpeners = []string{
	"Dear customer,", "URGENT:", "Security alert!", "Final notice:",
	"Dear valued customer,", "Attention required:",
}

var phishingBodies = []string{
	"your MPESA PIN must be verified immediately or your account will be suspended",
	"we detected suspicious activity, confirm your password within 24 hours",
	"your account will be permanently terminated unless you verify your identity now",
	"you have won KSH 50,000! Send your PIN to claim your prize",
	"your package is on hold, pay the delivery fee of KSH 350 to release it",
	"KRA tax refund of KSH 12,400 pending, enter your ID number to claim",
	"your subscription has expired, update your card number to continue",
}

var phishingClosers = []string{
	"Click here to confirm http://mpesa-secure.xyz/verify",
	"Reply with your PIN now",
	"Follow this link http://safaricom-verify.tk/login",
	"Call this number: 0712345678 immediately",
}

var legitimateMessages = []string{
	"Hi, here's the quarterly report you requested. Let me know if you have questions.",
	"Meeting moved to 3pm tomorrow, same room. See you there.",
	"Thanks for your order! Your receipt number is %d. No action needed.",
	"The project deadline was extended to next Friday. Plan accordingly.",
	"Lunch on Thursday? There's a new place near the office.",
	"Your appointment is confirmed for Monday at 10am.",
	"Attached are the minutes from yesterday's meeting. Regards, Jane.",
	"The library book you reserved is ready for pickup.",
	"Happy birthday! Hope you have a wonderful day.",
	"Reminder: team standup is at 9.15am. Agenda unchanged.",
	"I've pushed the fix to the main branch, please review when free.",
	"The invoice you sent has been approved and scheduled for payment.",
}

// syntheticTextCorpus assembles labeled SMS-style messages
func syntheticTextCorpus() []labeledSample {
	rng := rand.New(rand.NewSource(trainingSeed))
	var samples []labeledSample

	for i := 0; i < 4; i++ {
		for _, body := range phishingBodies {
			opener := phishingOpeners[rng.Intn(len(phishingOpeners))]
			closer := phishingClosers[rng.Intn(len(phishingClosers))]
			msg := fmt.Sprintf("%s %s. %s", opener, body, closer)
			samples = append(samples, labeledSample{content: msg, label: 1})
		}
		for _, msg := range legitimateMessages {
			msg = fill(msg, rng)
			if i > 0 {
				msg = fmt.Sprintf("%s (ref %d)", msg, rng.Intn(900)+100)
			}
			samples = append(samples, labeledSample{content: msg, label: 0})
		}
	}
	return samples
}

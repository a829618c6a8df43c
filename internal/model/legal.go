package model

// Legal page keys addressable under legalPages/<key>
const (
	LegalPagePrivacy    = "privacy"
	LegalPageDMCA       = "dmca"
	LegalPageDisclaimer = "disclaimer"
	LegalPageContact    = "contact"
)

// LegalPage holds the admin-editable text content for a legal page
type LegalPage struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DefaultLegalPages returns the built-in legal page content. Admin edits
// override these per field; unedited fields keep the default text.
func DefaultLegalPages() map[string]LegalPage {
	return map[string]LegalPage{
		LegalPagePrivacy: {
			Title: "Privacy Policy",
			Content: "<h3>Information We Collect</h3>" +
				"<p>We collect information you provide directly to us, such as when you create an account, use our services, or contact us for support.</p>" +
				"<h3>How We Use Your Information</h3>" +
				"<p>We use the information we collect to provide, maintain, and improve our services, process transactions, and communicate with you.</p>" +
				"<h3>Data Security</h3>" +
				"<p>We implement appropriate security measures to protect your personal information against unauthorized access, alteration, disclosure, or destruction.</p>",
		},
		LegalPageDMCA: {
			Title: "DMCA Policy",
			Content: "<h3>Copyright Infringement Notice</h3>" +
				"<p>We respect the intellectual property rights of others and expect users to do the same.</p>" +
				"<h3>Filing a DMCA Notice</h3>" +
				"<p>If you believe that content on our platform infringes your copyright, please send a notice identifying the copyrighted work, the infringing material and its location, and your contact information.</p>" +
				"<h3>Counter-Notification</h3>" +
				"<p>If you believe your content was removed in error, you may file a counter-notification.</p>",
		},
		LegalPageDisclaimer: {
			Title: "Disclaimer",
			Content: "<h3>Website Disclaimer</h3>" +
				"<p>The information on this website is provided on an \"as is\" basis. While we strive to ensure that the information is correct, we do not warrant its completeness or accuracy.</p>" +
				"<h3>External Links</h3>" +
				"<p>Our website may contain links to external sites. We are not responsible for the content or availability of external websites.</p>",
		},
		LegalPageContact: {
			Title: "Contact Us",
			Content: "<h3>Get in Touch</h3>" +
				"<p>If you have any questions, suggestions, or need support, please don't hesitate to contact us.</p>" +
				"<h3>Feedback</h3>" +
				"<p>Your feedback helps us improve our services. Whether it's a bug report, feature request, or general suggestion, we appreciate your input.</p>",
		},
	}
}

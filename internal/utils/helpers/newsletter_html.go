package helpers

import (
	"fmt"
	"html"
)

// BuildNewsletterHTML оборачивает тело письма рассылки в общий шаблон
// со ссылкой на сайт и отпиской.
func BuildNewsletterHTML(subject, body, siteURL, unsubscribeURL string) string {
	return fmt.Sprintf(`
<html>
  <body style="font-family:Arial,sans-serif; background:#f9f9f9;">
    <table width="100%%" cellpadding="0" cellspacing="0" bgcolor="#f9f9f9">
      <tr>
        <td align="center" style="padding:32px 0;">
          <table width="600" bgcolor="#fff" cellpadding="24" cellspacing="0" style="border-radius:8px; box-shadow:0 1px 6px #eee;">
            <tr>
              <td>
                <h2 style="color:#2d74da; margin-top:0;">%s</h2>
                <div style="font-size:16px; color:#222;">%s</div>
                <hr style="margin:32px 0 16px 0; border:0; border-top:1px solid #eee;">
                <div style="font-size:12px; color:#999;">
                  You are receiving this email because you subscribed at <a href="%s" style="color:#999;">%s</a>.<br>
                  <a href="%s" style="color:#999;">Unsubscribe</a>
                </div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`, html.EscapeString(subject), body, siteURL, html.EscapeString(siteURL), unsubscribeURL)
}

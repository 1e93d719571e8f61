package insight

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
)

// SignFunc produces the x-ncp-apigw-signature-v2 header value of one request.
type SignFunc func(accessKey, secretKey, method, uri string, timestampMs int64) string

// MakeSignature signs "METHOD URI\nTIMESTAMP\nACCESS_KEY" with HMAC-SHA256 keyed by the
// secret key and returns it base64 encoded. The uri excludes the query string.
func MakeSignature(accessKey, secretKey, method, uri string, timestampMs int64) string {
	message := method + " " + uri + "\n" + strconv.FormatInt(timestampMs, 10) + "\n" + accessKey

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

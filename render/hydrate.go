package render

import (
	"encoding/json"
	"fmt"

	"go-currency-pages/exchange"
)

// payload is the client-side state embedded in the page. Only the
// amount-invariant rate ships to the browser: amount-only edits recompute
// locally, while a currency change always forces a fresh request because
// the client has no data to resolve a new pair.
type payload struct {
	Rate float64 `json:"rate"`
	From string  `json:"from"`
	To   string  `json:"to"`
}

// HydrationScript emits the data block consumed by the behavior script.
// The raw rate goes out unrounded so the browser does not compound
// rounding error when recomputing at a different amount.
func HydrationScript(q exchange.Quote) string {
	data, _ := json.Marshal(payload{
		Rate: float64(q.Rate),
		From: string(q.From),
		To:   string(q.To),
	})
	return fmt.Sprintf(`<script id="conversion-data" type="application/json">%s</script>`, data)
}

// behaviorScript reproduces the server-side conversion in the browser for
// amount-only edits: same rounding rule (half away from zero to two
// decimals; amounts are positive so Math.round matches), result text
// updated in place, and the visible URL rewritten without a reload.
// Currency changes navigate to a fresh page.
const behaviorScript = `<script>
(function () {
  var data = JSON.parse(document.getElementById("conversion-data").textContent);
  var amount = document.getElementById("amount");
  var result = document.getElementById("result");
  var from = document.getElementById("from");
  var to = document.getElementById("to");

  function path(f, t, value) {
    var p = "/" + f.toLowerCase() + "-to-" + t.toLowerCase();
    if (isFinite(value) && value > 0 && value !== 1) {
      p += "/" + value;
    }
    return p;
  }

  amount.addEventListener("input", function () {
    var value = parseFloat(amount.value);
    if (!isFinite(value) || value <= 0) {
      return;
    }
    var converted = Math.round(value * data.rate * 100) / 100;
    result.textContent = value.toLocaleString("en-US") + " " + data.from + " = " +
      converted.toLocaleString("en-US", { minimumFractionDigits: 2, maximumFractionDigits: 2 }) +
      " " + data.to;
    history.replaceState(null, "", path(data.from, data.to, value));
  });

  function navigate() {
    window.location.assign(path(from.value, to.value, parseFloat(amount.value)));
  }
  from.addEventListener("change", navigate);
  to.addEventListener("change", navigate);
})();
</script>`

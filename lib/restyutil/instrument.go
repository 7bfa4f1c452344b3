package restyutil

import (
	"fmt"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type InstrumentOutput interface {
	Write(id string, contents string)
}

// DumpMessages writes every request/response pair made by client to output,
// ids are "<n>-<method>" in request order.
func DumpMessages(client *resty.Client, output InstrumentOutput) {
	var idcounter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := atomic.AddUint64(&idcounter, 1)
		output.Write(
			fmt.Sprintf("%03d-%s", id, res.Request.Method),
			formatExchange(res),
		)
		return nil
	})
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/didip/tollbooth/v6/limiter"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/logging"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/config"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/marketplace"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/proxy"
)

const (
	GeneralRPS = 10 // General Request Per Second

	DefaultExpirationTTL = time.Minute * 5
)

var generalRL *limiter.Limiter // general Rate Limiter

var marketProxy *proxy.Proxy

var logicRegistry = map[string]marketplace.Logic{}

// RegisterLogic makes a logic version activatable through the upgrade
// endpoint.
func RegisterLogic(l marketplace.Logic) {
	logicRegistry[l.Name()] = l
}

func ConfigRateLimits() {
	tokenExpirettl := config.Configuration.RateTokenExpireTTL
	if tokenExpirettl <= 0 {
		tokenExpirettl = DefaultExpirationTTL
	}

	ipLookups := []string{"RemoteAddr", "X-Forwarded-For", "X-Real-IP"}
	if config.Configuration.BehindProxy {
		ipLookups = []string{"X-Forwarded-For", "RemoteAddr", "X-Real-IP"}
	}

	gRps := config.Configuration.GeneralRPS
	if gRps <= 0 {
		gRps = GeneralRPS
	}

	logging.Logger.Info("Setting rps: ", zap.Float64("general_rps", gRps))

	generalRL = common.GetRateLimiter(gRps, ipLookups, true, tokenExpirettl)
}

func RateLimitByGeneralRL(handler common.ReqRespHandlerf) common.ReqRespHandlerf {
	return common.RateLimit(handler, generalRL)
}

/*SetupHandlers sets up the necessary API end points */
func SetupHandlers(r *mux.Router, p *proxy.Proxy) {
	marketProxy = p
	ConfigRateLimits()

	//marketplace operations
	r.HandleFunc("/v1/marketplace/keys",
		RateLimitByGeneralRL(common.ToJSONResponse(WithMarket(SetKeysHandler)))).
		Methods(http.MethodPost, http.MethodOptions)

	r.HandleFunc("/v1/marketplace/user",
		RateLimitByGeneralRL(common.ToJSONResponse(WithMarket(RegisterUserHandler)))).
		Methods(http.MethodPost, http.MethodOptions)

	r.HandleFunc("/v1/marketplace/machine",
		RateLimitByGeneralRL(common.ToJSONResponse(WithMarket(RegisterMachineHandler)))).
		Methods(http.MethodPost, http.MethodOptions)

	r.HandleFunc("/v1/marketplace/rent",
		RateLimitByGeneralRL(common.ToJSONResponse(WithMarket(RentMachineHandler)))).
		Methods(http.MethodPost, http.MethodOptions)

	r.HandleFunc("/v1/marketplace/order/complete/{order}",
		RateLimitByGeneralRL(common.ToJSONResponse(WithMarket(CompleteOrderHandler)))).
		Methods(http.MethodPost, http.MethodOptions)

	r.HandleFunc("/v1/marketplace/upgrade",
		RateLimitByGeneralRL(common.ToJSONResponse(WithMarket(UpgradeHandler)))).
		Methods(http.MethodPost, http.MethodOptions)

	//read accessors
	r.HandleFunc("/v1/marketplace/owner",
		RateLimitByGeneralRL(common.ToJSONResponse(WithMarket(OwnerHandler)))).
		Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/v1/marketplace/user/{address}",
		RateLimitByGeneralRL(common.ToJSONResponse(WithMarket(GetUserHandler)))).
		Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/v1/marketplace/machine/{machine}",
		RateLimitByGeneralRL(common.ToJSONResponse(WithMarket(GetMachineHandler)))).
		Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/v1/marketplace/order/{order}",
		RateLimitByGeneralRL(common.ToJSONResponse(WithMarket(GetOrderHandler)))).
		Methods(http.MethodGet, http.MethodOptions)
}

func dispatchBody(ctx *Context, selector string) (interface{}, error) {
	args, err := requestArgs(ctx.Request)
	if err != nil {
		return nil, err
	}
	return marketProxy.Dispatch(ctx, &marketplace.Call{
		Caller:   ctx.ClientID,
		Selector: selector,
		Args:     args,
	})
}

func SetKeysHandler(ctx *Context) (interface{}, error) {
	if _, err := dispatchBody(ctx, marketplace.SelSetKeys); err != nil {
		return nil, err
	}
	return map[string]string{"status": "ok"}, nil
}

func RegisterUserHandler(ctx *Context) (interface{}, error) {
	return dispatchBody(ctx, marketplace.SelRegisterUser)
}

func RegisterMachineHandler(ctx *Context) (interface{}, error) {
	return dispatchBody(ctx, marketplace.SelRegisterMachines)
}

func RentMachineHandler(ctx *Context) (interface{}, error) {
	return dispatchBody(ctx, marketplace.SelRentMachine)
}

func CompleteOrderHandler(ctx *Context) (interface{}, error) {
	orderID, err := strconv.ParseInt(ctx.Vars["order"], 10, 64)
	if err != nil {
		return nil, common.InvalidRequest("order id must be an integer")
	}
	return marketProxy.Dispatch(ctx, &marketplace.Call{
		Caller:   ctx.ClientID,
		Selector: marketplace.SelCompleteOrder,
		Args:     marketplace.Args{"order_id": orderID},
	})
}

func UpgradeHandler(ctx *Context) (interface{}, error) {
	args, err := requestArgs(ctx.Request)
	if err != nil {
		return nil, err
	}
	name, err := args.String("logic")
	if err != nil {
		return nil, err
	}
	next, ok := logicRegistry[name]
	if !ok {
		return nil, common.NewErrorf("unknown_logic", "no registered logic %q", name)
	}
	if err := marketProxy.UpdateCode(ctx, ctx.ClientID, next); err != nil {
		return nil, err
	}
	current, version, err := marketProxy.Current()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"logic": current, "version": version}, nil
}

func OwnerHandler(ctx *Context) (interface{}, error) {
	owner, err := marketProxy.Dispatch(ctx, &marketplace.Call{
		Caller:   ctx.ClientID,
		Selector: marketplace.SelOwner,
	})
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"owner": owner}, nil
}

func GetUserHandler(ctx *Context) (interface{}, error) {
	return marketProxy.Dispatch(ctx, &marketplace.Call{
		Caller:   ctx.ClientID,
		Selector: marketplace.SelUsers,
		Args:     marketplace.Args{"address": ctx.Vars["address"]},
	})
}

func GetMachineHandler(ctx *Context) (interface{}, error) {
	machineID, err := strconv.ParseInt(ctx.Vars["machine"], 10, 64)
	if err != nil {
		return nil, common.InvalidRequest("machine id must be an integer")
	}
	return marketProxy.Dispatch(ctx, &marketplace.Call{
		Caller:   ctx.ClientID,
		Selector: marketplace.SelMachines,
		Args:     marketplace.Args{"machine_id": machineID},
	})
}

func GetOrderHandler(ctx *Context) (interface{}, error) {
	orderID, err := strconv.ParseInt(ctx.Vars["order"], 10, 64)
	if err != nil {
		return nil, common.InvalidRequest("order id must be an integer")
	}
	return marketProxy.Dispatch(ctx, &marketplace.Call{
		Caller:   ctx.ClientID,
		Selector: marketplace.SelOrders,
		Args:     marketplace.Args{"order_id": orderID},
	})
}

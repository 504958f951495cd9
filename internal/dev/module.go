package dev

// ClientModulePath is the URL the browser module is served at.
const ClientModulePath = "/.hotweb/client.mjs"

// WebSocketPath is the URL of the reload WebSocket.
const WebSocketPath = "/.hotweb/ws"

// ClientModule is the browser side of hot reload. It exposes the same
// registration API as Client for code running in the page and applies the
// css, reload and redraw messages pushed by the server.
const ClientModule = `let listeners = {};
let refreshers = [];
let container = "app";
let ws = undefined;
let retry = 500;

function connect() {
    let url = new URL("` + WebSocketPath + `", import.meta.url);
    url.protocol = url.protocol.replace("http", "ws");
    ws = new WebSocket(url);
    ws.onopen = () => { retry = 500; console.debug("hotweb websocket open"); };
    ws.onclose = () => {
        console.debug("hotweb websocket closed");
        setTimeout(connect, retry);
        retry = Math.min(retry * 2, 10000);
    };
    ws.onerror = (err) => console.debug("hotweb websocket error: ", err);
    ws.onmessage = async (event) => {
        let msg = JSON.parse(event.data);
        switch (msg.type) {
        case "css":
            swapStylesheet(msg.path);
            break;
        case "reload":
            location.reload();
            break;
        case "redraw":
            let el = document.getElementById(msg.container || container);
            if (el) {
                el.innerHTML = msg.html;
            }
            break;
        case "change":
            await dispatch(msg.path);
            break;
        }
    };
}

async function dispatch(changed) {
    let ts = (new Date()).getTime();
    let paths = Object.keys(listeners).filter((p) => changed.startsWith(p));
    paths.sort((a, b) => b.length - a.length);
    for (const path of paths) {
        for (const cb of listeners[path]) {
            await cb(ts, changed);
        }
    }
    refreshers.forEach((cb) => cb());
}

function swapStylesheet(path) {
    let link = document.createElement("link");
    link.setAttribute("rel", "stylesheet");
    link.setAttribute("type", "text/css");
    link.setAttribute("href", path + "?" + (new Date()).getTime());
    document.head.appendChild(link);
    let styles = Array.from(document.getElementsByTagName("link"));
    styles.forEach((style, i) => {
        let href = style.getAttribute("href") || "";
        if (i < styles.length - 1 && href.startsWith(path)) {
            style.remove();
        }
    });
}

export function start(id) {
    if (id) {
        container = id;
    }
    if (ws === undefined) {
        connect();
    }
}

export function accept(path, cb) {
    if (listeners[path] === undefined) {
        listeners[path] = [];
    }
    listeners[path].push(cb);
}

export function refresh(cb) {
    refreshers.push(cb);
    cb();
}

export function watchHTML() {
    let withIndex = location.pathname.endsWith("/")
        ? location.pathname + "index.html"
        : location.pathname + "/index.html";
    accept(location.pathname, (ts, path) => {
        if (path == location.pathname || path == withIndex) {
            location.reload();
        }
    });
}

export function watchCSS() {
    accept("", (ts, path) => {
        if (path.endsWith(".css")) {
            swapStylesheet(path);
        }
    });
}
`

package web

// displayHTML is the projector-facing rendering page. It holds no state of
// its own: everything it draws comes from the /live frame stream, and the
// trail history it keeps is purely cosmetic.
const displayHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Grid Sync Display</title>
<style>
html, body { margin: 0; padding: 0; background: #05060f; overflow: hidden; }
canvas { display: block; }
</style>
</head>
<body>
<canvas id="c"></canvas>
<script>
(function() {
  var canvas = document.getElementById("c");
  var ctx = canvas.getContext("2d");
  var frame = null;
  var trails = [[], []];
  var TRAIL_LEN = 120;
  var COLORS = ["#37d5ff", "#ff9b37"];

  function resize() {
    canvas.width = window.innerWidth;
    canvas.height = window.innerHeight;
  }
  window.addEventListener("resize", resize);
  resize();

  function connect() {
    var proto = location.protocol === "https:" ? "wss:" : "ws:";
    var ws = new WebSocket(proto + "//" + location.host + "/live");
    ws.onmessage = function(ev) {
      frame = JSON.parse(ev.data);
      pushTrail(0, frame.p1.y);
      pushTrail(1, frame.p2.y);
    };
    ws.onclose = function() {
      frame = null;
      setTimeout(connect, 1000);
    };
  }
  connect();

  function pushTrail(i, y) {
    trails[i].push(y);
    if (trails[i].length > TRAIL_LEN) trails[i].shift();
  }

  function drawWave(i, p, x0, w, h) {
    var mid = h / 2;
    var amp = h * 0.3;
    var trail = trails[i];

    ctx.strokeStyle = COLORS[i];
    ctx.lineWidth = 3;
    ctx.shadowColor = COLORS[i];
    ctx.shadowBlur = 12;
    ctx.beginPath();
    for (var j = 0; j < trail.length; j++) {
      var x = x0 + (j / TRAIL_LEN) * w;
      var y = mid - trail[j] * amp;
      if (j === 0) ctx.moveTo(x, y); else ctx.lineTo(x, y);
    }
    ctx.stroke();
    ctx.shadowBlur = 0;

    // Head marker at the newest sample.
    if (trail.length > 0) {
      var hx = x0 + ((trail.length - 1) / TRAIL_LEN) * w;
      var hy = mid - trail[trail.length - 1] * amp;
      ctx.fillStyle = COLORS[i];
      ctx.beginPath();
      ctx.arc(hx, hy, 6, 0, 2 * Math.PI);
      ctx.fill();

      drawRings(p, hx, hy, i);
    }
  }

  function drawRings(p, x, y, i) {
    if (!p.rings) return;
    for (var j = 0; j < p.rings.length; j++) {
      var r = p.rings[j];
      ctx.strokeStyle = COLORS[i];
      ctx.globalAlpha = r.fade;
      ctx.lineWidth = 2;
      ctx.beginPath();
      ctx.arc(x, y, 10 + r.frac * 60, 0, 2 * Math.PI);
      ctx.stroke();
      ctx.globalAlpha = 1;
    }
  }

  function drawDial(p, cx, cy, radius, i) {
    ctx.strokeStyle = "#232640";
    ctx.lineWidth = 2;
    ctx.beginPath();
    ctx.arc(cx, cy, radius, 0, 2 * Math.PI);
    ctx.stroke();

    var a = -p.angle + Math.PI / 2;
    ctx.strokeStyle = COLORS[i];
    ctx.lineWidth = 4;
    ctx.shadowColor = COLORS[i];
    ctx.shadowBlur = 8;
    ctx.beginPath();
    ctx.moveTo(cx, cy);
    ctx.lineTo(cx + Math.cos(a) * radius, cy - Math.sin(a) * radius);
    ctx.stroke();
    ctx.shadowBlur = 0;
  }

  function drawSync(s, w, h) {
    var bw = w * 0.4;
    var bx = (w - bw) / 2;
    var by = h - 60;

    ctx.strokeStyle = "#232640";
    ctx.strokeRect(bx, by, bw, 14);
    ctx.fillStyle = s.locked ? "#4dff88" : "#8a8fb5";
    ctx.fillRect(bx, by, bw * s.progress, 14);

    ctx.fillStyle = s.locked ? "#4dff88" : "#8a8fb5";
    ctx.font = "bold 28px monospace";
    ctx.textAlign = "center";
    if (s.locked) {
      ctx.shadowColor = "#4dff88";
      ctx.shadowBlur = 16;
      ctx.fillText("IN SYNC", w / 2, by - 16);
      ctx.shadowBlur = 0;
    } else if (s.progress > 0) {
      ctx.fillText(Math.round(s.progress * 100) + "%", w / 2, by - 16);
    }
  }

  function draw() {
    var w = canvas.width, h = canvas.height;
    ctx.fillStyle = "#05060f";
    ctx.fillRect(0, 0, w, h);

    if (frame) {
      var colW = w * 0.36;
      drawWave(0, frame.p1, w * 0.05, colW, h);
      drawWave(1, frame.p2, w * 0.59, colW, h);
      drawDial(frame.p1, w * 0.46, h * 0.22, 40, 0);
      drawDial(frame.p2, w * 0.54, h * 0.22, 40, 1);
      drawSync(frame.sync, w, h);
    } else {
      ctx.fillStyle = "#8a8fb5";
      ctx.font = "24px monospace";
      ctx.textAlign = "center";
      ctx.fillText("connecting...", w / 2, h / 2);
    }
    requestAnimationFrame(draw);
  }
  requestAnimationFrame(draw);
})();
</script>
</body>
</html>
`
